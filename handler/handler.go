// Package handler runs one cleanse invocation: read the triggering object, run the pipeline,
// write the cleaned file and report, and publish an alert if anomalies were found
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/turbot/tailpipe-cleanse/alert"
	"github.com/turbot/tailpipe-cleanse/artifact_loader"
	"github.com/turbot/tailpipe-cleanse/config"
	"github.com/turbot/tailpipe-cleanse/context_values"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/object_store"
	"github.com/turbot/tailpipe-cleanse/pipeline"
	"github.com/turbot/tailpipe-cleanse/table"
)

const (
	csvContentType  = "text/csv"
	jsonContentType = "application/json"
)

// Trigger identifies the object an invocation processes
type Trigger struct {
	Bucket string
	Key    string
}

func (t Trigger) String() string {
	return fmt.Sprintf("%s/%s", t.Bucket, t.Key)
}

type Handler struct {
	Store     object_store.Store
	Publisher alert.Publisher
	Config    *config.Config
	// Now defaults to time.Now
	Now func() time.Time
}

func NewHandler(store object_store.Store, publisher alert.Publisher, cfg *config.Config) *Handler {
	return &Handler{
		Store:     store,
		Publisher: publisher,
		Config:    cfg,
		Now:       time.Now,
	}
}

// Handle processes a single object. An error is returned if any stage before the alert fails,
// in which case no alert is published. The result is always non-nil.
func (h *Handler) Handle(ctx context.Context, trigger Trigger) (*InvocationResult, error) {
	invocationId := xid.New().String()
	ctx = context_values.WithInvocationId(ctx, invocationId)
	ctx = context_values.WithSource(ctx, object_store.Location(h.Store, trigger.Bucket, trigger.Key))

	res := &InvocationResult{
		InvocationId: invocationId,
		Source:       object_store.Location(h.Store, trigger.Bucket, trigger.Key),
	}
	logger := slog.With("invocation_id", invocationId, "bucket", trigger.Bucket, "key", trigger.Key)

	if trigger.Bucket == "" || trigger.Key == "" {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageRead, fmt.Errorf("trigger must specify a bucket and key, got '%s'", trigger)))
	}
	outputBucket := h.outputBucket(trigger)
	if h.isOwnOutput(trigger, outputBucket) {
		logger.Info("Skipping object written by cleanse")
		res.Status = StatusSkipped
		res.Message = "object is a cleanse output"
		return res, nil
	}

	logger.Info("Processing object")
	raw, err := h.Store.Get(ctx, trigger.Bucket, trigger.Key)
	if err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageRead, err))
	}
	loader := artifact_loader.Factory.GetLoader(trigger.Key)
	raw, err = loader.Load(ctx, trigger.Key, raw)
	if err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageRead, err))
	}

	now := h.now()
	pipelineConfig := h.Config.PipelineConfig()
	pipelineConfig.Now = func() time.Time { return now }

	out, err := pipeline.Process(raw, trigger.Key, pipelineConfig)
	if err != nil {
		return h.fail(res, logger, err)
	}
	res.OriginalRows = out.Stats.OriginalRows
	res.CleanedRows = out.Stats.CleanedRows
	res.DuplicatesRemoved = out.Stats.DuplicatesRemoved
	res.FilteredOut = out.Stats.FilteredOut
	res.Summary = out.Summary

	// everything which can fail is rendered before the first write
	data, err := table.WriteCsv(out.Dataset, pipelineConfig.CsvOptions...)
	if err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageWrite, err))
	}
	summaryJson, err := json.Marshal(out.Summary)
	if err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageSummarize, err))
	}

	res.AlertRequired = out.Summary.ShouldAlert()
	res.Status = StatusSuccess
	res.Message = fmt.Sprintf("cleaned %d of %d rows", res.CleanedRows, res.OriginalRows)

	outputKey := OutputKey(*h.Config.Output.KeyMode, *h.Config.Output.Prefix, trigger.Key, now)
	if err := h.Store.Put(ctx, outputBucket, outputKey, data, csvContentType, h.metadata(trigger, res)); err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageWrite, err))
	}
	res.OutputLocation = object_store.Location(h.Store, outputBucket, outputKey)

	if err := h.writeReport(ctx, trigger, outputBucket, res); err != nil {
		return h.fail(res, logger, errhandling.NewStageError(errhandling.StageWrite, err))
	}

	// publish only once every object is written, so a failed invocation never alerts
	if res.AlertRequired {
		res.AlertSent = h.publishAlert(ctx, logger, trigger, summaryJson)
	}

	logger.Info("Processed object",
		"original_rows", res.OriginalRows,
		"cleaned_rows", res.CleanedRows,
		"duplicates_removed", res.DuplicatesRemoved,
		"filtered_out", res.FilteredOut,
		"anomalies_detected", out.Summary.AnomaliesDetected,
		"output_location", res.OutputLocation)
	return res, nil
}

// writeReport writes the invocation result as JSON, if reports are enabled.
// The report is written before the alert is published so it records AlertRequired, not AlertSent.
func (h *Handler) writeReport(ctx context.Context, trigger Trigger, outputBucket string, res *InvocationResult) error {
	if !*h.Config.Output.WriteReport {
		return nil
	}
	reportKey := ReportKey(*h.Config.Output.ReportPrefix, trigger.Key)
	res.ReportLocation = object_store.Location(h.Store, outputBucket, reportKey)
	report, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		res.ReportLocation = ""
		return err
	}
	if err := h.Store.Put(ctx, outputBucket, reportKey, report, jsonContentType, h.metadata(trigger, res)); err != nil {
		res.ReportLocation = ""
		return err
	}
	return nil
}

// publishAlert makes a single publish attempt. A failure is logged and not returned.
func (h *Handler) publishAlert(ctx context.Context, logger *slog.Logger, trigger Trigger, summaryJson []byte) bool {
	subject := fmt.Sprintf("%s: %s", *h.Config.Alert.Subject, baseName(trigger.Key))
	topic := ""
	if h.Config.Alert.Topic != nil {
		topic = *h.Config.Alert.Topic
	}
	if err := h.Publisher.Publish(ctx, topic, subject, string(summaryJson)); err != nil {
		logger.Warn("Failed to publish alert", "topic", topic, "error", errhandling.NewAlertError(topic, err))
		return false
	}
	return true
}

func (h *Handler) fail(res *InvocationResult, logger *slog.Logger, err error) (*InvocationResult, error) {
	res.Status = StatusError
	res.Stage = errhandling.StageOf(err)
	res.Message = err.Error()
	res.Retryable = errhandling.IsRetryable(err)
	logger.Error("Failed to process object", "stage", res.Stage, "retryable", res.Retryable, "error", err)
	return res, err
}

func (h *Handler) outputBucket(trigger Trigger) string {
	if h.Config.Output.Bucket != nil && *h.Config.Output.Bucket != "" {
		return *h.Config.Output.Bucket
	}
	return trigger.Bucket
}

// isOwnOutput returns whether the triggering object was written by a previous invocation,
// which happens when the output bucket is also the source bucket
func (h *Handler) isOwnOutput(trigger Trigger, outputBucket string) bool {
	if trigger.Bucket != outputBucket {
		return false
	}
	for _, prefix := range []string{*h.Config.Output.Prefix, *h.Config.Output.ReportPrefix} {
		if prefix != "" && strings.HasPrefix(trigger.Key, prefix) {
			return true
		}
	}
	return false
}

func (h *Handler) metadata(trigger Trigger, res *InvocationResult) map[string]string {
	return map[string]string{
		"source-bucket":      trigger.Bucket,
		"source-key":         trigger.Key,
		"invocation-id":      res.InvocationId,
		"original-rows":      strconv.Itoa(res.OriginalRows),
		"cleaned-rows":       strconv.Itoa(res.CleanedRows),
		"duplicates-removed": strconv.Itoa(res.DuplicatesRemoved),
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

package handler

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/turbot/tailpipe-cleanse/artifact_loader"
	"github.com/turbot/tailpipe-cleanse/config"
)

// baseName returns the file name of an object key, without compression or .csv extensions
func baseName(key string) string {
	name := artifact_loader.Factory.GetLoader(key).TrimExtension(path.Base(key))
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		name = name[:len(name)-len(".csv")]
	}
	return name
}

// OutputKey derives the key of the cleaned file from the source key.
// In date mode the file is placed in a folder named after the processing date (UTC).
func OutputKey(mode, prefix, sourceKey string, processed time.Time) string {
	name := baseName(sourceKey) + "_cleaned.csv"
	if mode == config.KeyModeDate {
		return fmt.Sprintf("%s%s/%s", prefix, processed.UTC().Format(time.DateOnly), name)
	}
	return prefix + name
}

// ReportKey derives the key of the JSON report from the source key
func ReportKey(prefix, sourceKey string) string {
	return prefix + baseName(sourceKey) + "_report.json"
}

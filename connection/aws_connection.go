package connection

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/dnscache"
	"golang.org/x/sync/semaphore"
)

const defaultAwsRegion = "us-east-1"

// AwsConnection holds the credentials and client tuning shared by the S3 store and the SNS publisher
type AwsConnection struct {
	Region                *string `hcl:"region"`
	Profile               *string `hcl:"profile"`
	AccessKey             *string `hcl:"access_key"`
	SecretKey             *string `hcl:"secret_key"`
	SessionToken          *string `hcl:"session_token"`
	MaxErrorRetryAttempts *int    `hcl:"max_error_retry_attempts"`
	MinErrorRetryDelay    *int    `hcl:"min_error_retry_delay"`
	EndpointUrl           *string `hcl:"endpoint_url"`
	S3ForcePathStyle      *bool   `hcl:"s3_force_path_style"`
}

func (c *AwsConnection) Validate() error {
	if c.AccessKey != nil && c.SecretKey == nil {
		return fmt.Errorf("access_key set without secret_key")
	}
	if c.AccessKey == nil && c.SecretKey != nil {
		return fmt.Errorf("secret_key set without access_key")
	}
	if c.MinErrorRetryDelay != nil && *c.MinErrorRetryDelay < 1 {
		return fmt.Errorf("min_error_retry_delay must be greater than or equal to 1")
	}
	if c.MaxErrorRetryAttempts != nil && *c.MaxErrorRetryAttempts < 1 {
		return fmt.Errorf("max_error_retry_attempts must be greater than or equal to 1")
	}
	return nil
}

func (c *AwsConnection) Identifier() string {
	return "aws"
}

// PathStyle returns whether S3 requests should use path style addressing
func (c *AwsConnection) PathStyle() bool {
	return c.S3ForcePathStyle != nil && *c.S3ForcePathStyle
}

// GetClientConfiguration builds an aws.Config from the connection, falling back to the
// default credential chain and AWS_* environment variables for anything not set
func (c *AwsConnection) GetClientConfiguration(ctx context.Context) (*aws.Config, error) {
	var configOptions []func(*config.LoadOptions) error

	if c.Profile != nil {
		configOptions = append(configOptions, config.WithSharedConfigProfile(aws.ToString(c.Profile)))
	}
	if c.AccessKey != nil && c.SecretKey != nil {
		provider := credentials.NewStaticCredentialsProvider(aws.ToString(c.AccessKey), aws.ToString(c.SecretKey), aws.ToString(c.SessionToken))
		configOptions = append(configOptions, config.WithCredentialsProvider(provider))
	}
	if c.Region != nil {
		configOptions = append(configOptions, config.WithRegion(*c.Region))
	}
	configOptions = append(configOptions, config.WithHTTPClient(sharedHTTPClient()))

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	if cfg.Region == "" {
		slog.Info("No region set, using default", "region", defaultAwsRegion)
		cfg.Region = defaultAwsRegion
	}

	maxRetries := getConfigOrEnvInt(c.MaxErrorRetryAttempts, "AWS_MAX_ATTEMPTS", 9)
	minRetryDelay := 25 * time.Millisecond
	if c.MinErrorRetryDelay != nil {
		minRetryDelay = time.Duration(*c.MinErrorRetryDelay) * time.Millisecond
	}
	retryer := retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxRetries
		o.MaxBackoff = 5 * time.Minute
		o.RateLimiter = NoOpRateLimit{}
		o.Backoff = NewExponentialJitterBackoff(minRetryDelay)
	})
	cfg.Retryer = func() aws.Retryer {
		// UnknownError is the code returned for a 408
		return retry.AddWithErrorCodes(retryer, "UnknownError")
	}

	if endpointUrl := getConfigOrEnv(c.EndpointUrl, "AWS_ENDPOINT_URL"); endpointUrl != "" {
		cfg.BaseEndpoint = aws.String(endpointUrl)
	}

	return &cfg, nil
}

func getConfigOrEnv(configValue *string, env string) string {
	if configValue != nil {
		return *configValue
	}
	return os.Getenv(env)
}

func getConfigOrEnvInt(configValue *int, env string, defaultValue int) int {
	if configValue != nil {
		return *configValue
	}
	return readEnvVarToInt(env, defaultValue)
}

func readEnvVarToInt(name string, defaultVal int) int {
	if envValue := os.Getenv(name); envValue != "" {
		if i, err := strconv.Atoi(envValue); err == nil {
			return i
		}
	}
	return defaultVal
}

var (
	httpClientOnce sync.Once
	httpClient     aws.HTTPClient
)

// sharedHTTPClient returns the HTTP client shared by all AWS clients in the process.
// It caches DNS lookups, limits parallel lookups and caps connections per host, so that
// many concurrent invocations in one process do not flood the resolver.
func sharedHTTPClient() aws.HTTPClient {
	httpClientOnce.Do(func() {
		httpClient = newHTTPClient()
	})
	return httpClient
}

func newHTTPClient() aws.HTTPClient {
	dnsLookupMaxParallel := readEnvVarToInt("CLEANSE_AWS_DNS_LOOKUP_MAX_PARALLEL", 25)
	// -1 disables the cache, 0 disables refresh
	dnsCacheRefreshIntervalSecs := readEnvVarToInt("CLEANSE_AWS_DNS_CACHE_REFRESH_INTERVAL_SECS", 300)
	maxConnsPerHost := readEnvVarToInt("CLEANSE_AWS_HTTP_TRANSPORT_MAX_CONNS_PER_HOST", 500)

	client := awshttp.NewBuildableClient()
	if maxConnsPerHost > 0 {
		client = client.WithTransportOptions(func(tr *http.Transport) {
			tr.MaxConnsPerHost = maxConnsPerHost
		})
	}
	if dnsCacheRefreshIntervalSecs < 0 {
		return client
	}

	resolver := &dnscache.Resolver{}
	if dnsCacheRefreshIntervalSecs > 0 {
		go func() {
			t := time.NewTicker(time.Duration(dnsCacheRefreshIntervalSecs) * time.Second)
			defer t.Stop()
			for range t.C {
				resolver.Refresh(true)
			}
		}()
	}

	sem := semaphore.NewWeighted(int64(dnsLookupMaxParallel))
	dialer := client.GetDialer()
	return client.WithTransportOptions(func(tr *http.Transport) {
		tr.DialContext = func(ctx context.Context, network string, addr string) (conn net.Conn, err error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			sem.Release(1)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					break
				}
			}
			return conn, err
		}
	})
}

// NoOpRateLimit disables the client side retry token bucket https://github.com/aws/aws-sdk-go-v2/issues/543
type NoOpRateLimit struct{}

func (NoOpRateLimit) AddTokens(uint) error { return nil }
func (NoOpRateLimit) GetToken(context.Context, uint) (func() error, error) {
	return noOpToken, nil
}
func noOpToken() error { return nil }

// ExponentialJitterBackoff grows the retry delay by a factor of 3 per attempt, with +/-20% jitter
type ExponentialJitterBackoff struct {
	minDelay time.Duration
}

func NewExponentialJitterBackoff(minDelay time.Duration) *ExponentialJitterBackoff {
	return &ExponentialJitterBackoff{minDelay: minDelay}
}

func (j *ExponentialJitterBackoff) BackoffDelay(attempt int, err error) (time.Duration, error) {
	// jitter is between [0.8, 1.2)
	jitter := float64(rand.Intn(40)+80) / 100
	delay := float64(j.minDelay) * math.Pow(3, float64(attempt)) * jitter
	retryTime := time.Duration(min(delay, float64(5*time.Minute)))

	slog.Info("BackoffDelay:", "attempt", attempt, "retry_time", retryTime.String(), "error", err)
	return retryTime, nil
}

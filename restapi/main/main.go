package main

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"strings"

	"github.com/SharedCode/guardian"
	"github.com/SharedCode/guardian/aws_s3"
	"github.com/SharedCode/guardian/cassandra"
	"github.com/SharedCode/guardian/policy"
	"github.com/SharedCode/guardian/redis"
	"github.com/SharedCode/guardian/restapi"
)

// Guardian REST API server. All knobs come from the environment:
//
//	GUARDIAN_ENV            DEV (mocks, no backends), QA or empty (production)
//	GUARDIAN_HTTP_ADDR      listen address, default localhost:8080
//	CASSANDRA_HOSTS         comma separated contact points
//	CASSANDRA_KEYSPACE      keyspace, default guardian
//	REDIS_ADDR              redis address, default localhost:6379
//	REDIS_PASSWORD          redis password
//	GUARDIAN_NOTIFIER       "redis" for pub/sub alerts, default log-only
//	GUARDIAN_POLICY_EXPR    optional CEL decision override expression
//	GUARDIAN_ARCHIVE_BUCKET optional S3 bucket for the event cold archive
//	S3_ENDPOINT, S3_REGION, S3_USERNAME, S3_PASSWORD
func main() {
	guardian.ConfigureLogging()

	api, err := buildAPI()
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	defer func() {
		if api.Archiver != nil {
			// Push out whatever is still buffered before exit.
			api.Archiver.Flush(context.Background())
		}
		cassandra.CloseConnection()
		redis.CloseConnection()
	}()

	restapi.Main(api)
}

func buildAPI() (*restapi.AnalyzeAPI, error) {
	var api *restapi.AnalyzeAPI

	if os.Getenv("GUARDIAN_ENV") == "DEV" {
		// Local run without any backend.
		api = restapi.NewAnalyzeAPI(cassandra.NewMockEventStore(), guardian.NewLogNotifier())
		api.Cache = redis.NewMockClient()
	} else {
		if _, err := cassandra.OpenConnection(cassandra.Config{
			ClusterHosts: splitHosts(os.Getenv("CASSANDRA_HOSTS")),
			Keyspace:     os.Getenv("CASSANDRA_KEYSPACE"),
		}); err != nil {
			return nil, fmt.Errorf("couldn't open Cassandra connection, details: %v", err)
		}

		redisOptions := redis.DefaultOptions()
		if v := os.Getenv("REDIS_ADDR"); v != "" {
			redisOptions.Address = v
		}
		redisOptions.Password = os.Getenv("REDIS_PASSWORD")
		if _, err := redis.OpenConnection(redisOptions); err != nil {
			return nil, fmt.Errorf("couldn't open Redis connection, details: %v", err)
		}

		var notifier guardian.Notifier = guardian.NewLogNotifier()
		if os.Getenv("GUARDIAN_NOTIFIER") == "redis" {
			notifier = redis.NewNotifier()
		}

		api = restapi.NewAnalyzeAPI(cassandra.NewEventStore(), notifier)
		api.Cache = redis.NewClient()
	}

	if expr := os.Getenv("GUARDIAN_POLICY_EXPR"); expr != "" {
		override, err := policy.NewOverride(expr)
		if err != nil {
			return nil, fmt.Errorf("couldn't compile GUARDIAN_POLICY_EXPR, details: %v", err)
		}
		api.Policy.Override = override
	}

	if bucket := os.Getenv("GUARDIAN_ARCHIVE_BUCKET"); bucket != "" {
		s3Client := aws_s3.Connect(aws_s3.Config{
			HostEndpointUrl: os.Getenv("S3_ENDPOINT"),
			Region:          os.Getenv("S3_REGION"),
			Username:        os.Getenv("S3_USERNAME"),
			Password:        os.Getenv("S3_PASSWORD"),
		})
		api.Archiver = aws_s3.NewArchiver(s3Client, bucket, "events", 100)
	}

	return api, nil
}

func splitHosts(csv string) []string {
	if csv == "" {
		return []string{"localhost:9042"}
	}
	hosts := strings.Split(csv, ",")
	for i := range hosts {
		hosts[i] = strings.TrimSpace(hosts[i])
	}
	return hosts
}

// Package testsupport starts the containers used by integration tests.
// Every helper skips the calling test when no container provider is healthy.
package testsupport

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pitabwire/util"
	"github.com/testcontainers/testcontainers-go"
	tcNats "github.com/testcontainers/testcontainers-go/modules/nats"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcValkey "github.com/testcontainers/testcontainers-go/modules/valkey"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pitabwire/selectable/data"
)

const (
	// PostgresqlDBImage is the PostgreSQL image used for override tables.
	PostgresqlDBImage = "postgres:latest"
	// ValkeyImage serves both the valkey and redis snapshot stores.
	ValkeyImage = "docker.io/valkey/valkey:latest"
	// NatsImage runs JetStream for the KV snapshot store.
	NatsImage = "nats:latest"

	DBUser     = "selectable"
	DBPassword = "s3l3ct"
	DBName     = "selectable_test"

	// OccurrenceValue is the number of times postgres logs readiness during startup.
	OccurrenceValue = 2
	startupTimeout  = 60 * time.Second
)

// Postgres starts a database and returns its connection string.
func Postgres(t *testing.T) data.DSN {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	pgContainer, err := tcPostgres.Run(ctx, PostgresqlDBImage,
		tcPostgres.WithDatabase(DBName),
		tcPostgres.WithUsername(DBUser),
		tcPostgres.WithPassword(DBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(OccurrenceValue).
				WithStartupTimeout(startupTimeout)),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	conn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	logStarted(ctx, PostgresqlDBImage, data.DSN(conn))
	return data.DSN(conn)
}

// Valkey starts a valkey server and returns a redis:// connection string.
func Valkey(t *testing.T) data.DSN {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	valkeyContainer, err := tcValkey.Run(ctx, ValkeyImage)
	testcontainers.CleanupContainer(t, valkeyContainer)
	if err != nil {
		t.Fatalf("failed to start valkey container: %v", err)
	}

	conn, err := valkeyContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get valkey connection string: %v", err)
	}

	logStarted(ctx, ValkeyImage, data.DSN(conn))
	return data.DSN(conn)
}

// Nats starts a JetStream enabled NATS server and returns its connection string.
func Nats(t *testing.T) data.DSN {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	natsContainer, err := tcNats.Run(ctx, NatsImage,
		testcontainers.WithCmdArgs("--js"),
	)
	testcontainers.CleanupContainer(t, natsContainer)
	if err != nil {
		t.Fatalf("failed to start nats container: %v", err)
	}

	conn, err := natsContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get nats connection string: %v", err)
	}

	logStarted(ctx, NatsImage, data.DSN(conn))
	return data.DSN(conn)
}

// ValkeyAs rewrites a redis:// DSN to the valkey:// scheme.
func ValkeyAs(dsn data.DSN) data.DSN {
	return data.DSN(fmt.Sprintf("valkey://%s", strings.TrimPrefix(dsn.String(), "redis://")))
}

func logStarted(ctx context.Context, image string, dsn data.DSN) {
	util.Log(ctx).WithField("image", image).WithField("dsn", dsn.Redacted()).Info("container ready")
}

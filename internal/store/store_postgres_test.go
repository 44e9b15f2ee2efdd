package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/loykin/frontc/internal/store/postgresql"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Integration test with PostgreSQL via testcontainers
func TestPostgresStore_Contacts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	tc.SkipIfProviderIsNotHealthy(t)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "frontc_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	}
	pg, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("skipping Postgres container test: %v", err)
		return
	}
	defer func() { _ = pg.Terminate(ctx) }()

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := Config{
		Driver: DriverPostgresql,
		PostgreSQL: postgresql.Config{
			DSN: fmt.Sprintf("postgres://test:test@%s:%s/frontc_test?sslmode=disable", host, port.Port()),
		},
	}
	var st *Store
	deadline := time.Now().Add(30 * time.Second)
	for {
		st, err = Open(ctx, cfg)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("open postgres store: %v", err)
	}
	defer func() { _ = st.Close() }()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := st.SaveContact(ctx, Contact{Name: "Ada", Email: "ada@example.com", CreatedAt: now}); err != nil {
		t.Fatalf("SaveContact: %v", err)
	}
	if err := st.SaveContact(ctx, Contact{Name: "Ada", Email: "ada@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	got, err := st.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(got) != 1 || got[0].Email != "ada@example.com" || !got[0].CreatedAt.Equal(now) {
		t.Fatalf("unexpected contacts: %+v", got)
	}
}

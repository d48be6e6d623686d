package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a throwaway Redis and returns its address.
func setupRedisContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, mappedPort.Port())
}

func seedSession(id string, expiresAt time.Time) domain.AuthenticationSession {
	return domain.AuthenticationSession{
		ID:           id,
		CustomerID:   "cust-A",
		CartID:       "cart-123",
		CartVersion:  2,
		PaymentToken: "tok_visa_4242",
		TokenType:    domain.TokenTypeStored,
		TotalAmount:  domain.Money{Amount: 15999, Currency: "GBP"},
		Billing: domain.BillingDetails{
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Email:        "ada@example.test",
			AddressLine1: "1 High St",
			Locality:     "London",
			PostalCode:   "N1 9GU",
			Country:      "GB",
		},
		Status:    domain.SessionStatusPending,
		CreatedAt: expiresAt.Add(-domain.SessionTTL),
		ExpiresAt: expiresAt,
	}
}

func TestSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	st, err := NewStore(setupRedisContainer(t), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))

	ctx := context.Background()
	sessions := st.Sessions()

	t.Run("create and get round trip", func(t *testing.T) {
		s := seedSession("rt", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))

		got, err := sessions.GetSession(ctx, "rt")
		require.NoError(t, err)
		require.Equal(t, s.ID, got.ID)
		require.Equal(t, s.CustomerID, got.CustomerID)
		require.Equal(t, s.CartID, got.CartID)
		require.Equal(t, s.CartVersion, got.CartVersion)
		require.Equal(t, s.PaymentToken, got.PaymentToken)
		require.Equal(t, s.TokenType, got.TokenType)
		require.Equal(t, s.TotalAmount, got.TotalAmount)
		require.Equal(t, s.Billing, got.Billing)
		require.Equal(t, domain.SessionStatusPending, got.Status)
		require.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
		require.Nil(t, got.UsedAt)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		s := seedSession("dup", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))
		require.ErrorIs(t, sessions.CreateSession(ctx, s), store.ErrAlreadyExists)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := sessions.GetSession(ctx, "never-created")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lapsed session reads absent", func(t *testing.T) {
		s := seedSession("lapsed", time.Now().Add(-100*time.Millisecond))
		require.NoError(t, sessions.CreateSession(ctx, s))

		_, err := sessions.GetSession(ctx, "lapsed")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("used record read back raw", func(t *testing.T) {
		s := seedSession("used", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))
		require.NoError(t, sessions.UpdateSessionStatus(ctx, "used", domain.SessionStatusPending, domain.SessionStatusUsed))

		got, err := sessions.GetSession(ctx, "used")
		require.NoError(t, err)
		require.Equal(t, domain.SessionStatusUsed, got.Status)
		require.NotNil(t, got.UsedAt)
	})

	t.Run("conflict when current status does not match", func(t *testing.T) {
		s := seedSession("conflict", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))
		require.NoError(t, sessions.UpdateSessionStatus(ctx, "conflict", domain.SessionStatusPending, domain.SessionStatusUsed))

		err := sessions.UpdateSessionStatus(ctx, "conflict", domain.SessionStatusPending, domain.SessionStatusUsed)
		require.ErrorIs(t, err, store.ErrStatusConflict)
	})

	t.Run("transition on absent id", func(t *testing.T) {
		err := sessions.UpdateSessionStatus(ctx, "never-created", domain.SessionStatusPending, domain.SessionStatusUsed)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("status transition single winner", func(t *testing.T) {
		s := seedSession("race", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))

		const attempts = 16
		var wg sync.WaitGroup
		results := make(chan error, attempts)

		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- sessions.UpdateSessionStatus(ctx, "race", domain.SessionStatusPending, domain.SessionStatusUsed)
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for err := range results {
			if err == nil {
				winners++
			} else {
				require.ErrorIs(t, err, store.ErrStatusConflict)
			}
		}
		require.Equal(t, 1, winners, "exactly one attempt may win the transition")
	})

	t.Run("delete idempotent", func(t *testing.T) {
		s := seedSession("del", time.Now().Add(domain.SessionTTL))
		require.NoError(t, sessions.CreateSession(ctx, s))

		removed, err := sessions.DeleteSession(ctx, "del")
		require.NoError(t, err)
		require.True(t, removed)

		removed, err = sessions.DeleteSession(ctx, "del")
		require.NoError(t, err)
		require.False(t, removed)
	})

	t.Run("expiry sweep is a no-op", func(t *testing.T) {
		require.NoError(t, sessions.DeleteExpiredSessions(ctx))
	})
}

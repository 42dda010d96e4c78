package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solara/internal/config"
	"solara/internal/database"
	"solara/internal/domain"
	"solara/internal/notify"
	"solara/internal/store"
	apperrors "solara/pkg/errors"
)

// recordingNotifier captures notifications and optionally fails delivery.
type recordingNotifier struct {
	sent atomic.Int32
	err  error
	last atomic.Value
}

func (n *recordingNotifier) Send(ctx context.Context, ln LeadNotification) error {
	n.sent.Add(1)
	n.last.Store(ln)
	return n.err
}

func setupLeadService(t *testing.T, notifier Notifier) (*LeadService, *store.Leads, *notify.Dispatcher) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Connect(&config.DatabaseConfig{URL: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() {
		database.Close(db)
	})

	leads := store.NewLeads(db)
	dispatcher := notify.NewDispatcher()

	return NewLeadService(leads, dispatcher, notifier), leads, dispatcher
}

func TestSubmitMinimalLead(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, leads, dispatcher := setupLeadService(t, notifier)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitLeadInput{Name: "Ali", Phone: "0551234567"})
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.NotEmpty(t, result.Message)

	rows, err := leads.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TypeResidential, rows[0].Type, "type defaults to Residential")

	dispatcher.Close()
	assert.EqualValues(t, 1, notifier.sent.Load())

	sent := notifier.last.Load().(LeadNotification)
	assert.Equal(t, "Ali", sent.Name)
	assert.Equal(t, placeholderAnnualSavings, sent.Savings)
}

func TestSubmitIDsStrictlyIncrease(t *testing.T) {
	svc, _, dispatcher := setupLeadService(t, &recordingNotifier{})
	defer dispatcher.Close()
	ctx := context.Background()

	var lastID uint
	for i := 0; i < 3; i++ {
		result, err := svc.Submit(ctx, SubmitLeadInput{Name: "Ali", Phone: "0551234567"})
		require.NoError(t, err)
		assert.Greater(t, result.ID, lastID)
		lastID = result.ID
	}
}

func TestSubmitValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		input SubmitLeadInput
	}{
		{"name too short", SubmitLeadInput{Name: "A", Phone: "0551234567"}},
		{"single arabic character name", SubmitLeadInput{Name: "ع", Phone: "0551234567"}},
		{"name whitespace only", SubmitLeadInput{Name: "   ", Phone: "0551234567"}},
		{"phone malformed", SubmitLeadInput{Name: "Ali", Phone: "123"}},
		{"phone wrong prefix", SubmitLeadInput{Name: "Ali", Phone: "0451234567"}},
		{"email malformed", SubmitLeadInput{Name: "Ali", Phone: "0551234567", Email: "not-an-email"}},
	}

	notifier := &recordingNotifier{}
	svc, leads, dispatcher := setupLeadService(t, notifier)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	rows, err := leads.ListNewestFirst(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows, "rejected submissions must not be persisted")

	dispatcher.Close()
	assert.Zero(t, notifier.sent.Load(), "rejected submissions must not notify")
}

func TestSubmitAcceptsTwoCharacterArabicName(t *testing.T) {
	svc, _, dispatcher := setupLeadService(t, &recordingNotifier{})
	defer dispatcher.Close()

	// The minimum is two characters, not two bytes.
	_, err := svc.Submit(context.Background(), SubmitLeadInput{Name: "عد", Phone: "0551234567"})
	require.NoError(t, err)
}

func TestSubmitInvalidTypeDefaultsInsteadOfRejecting(t *testing.T) {
	svc, leads, dispatcher := setupLeadService(t, &recordingNotifier{})
	defer dispatcher.Close()
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitLeadInput{Name: "Ali", Phone: "0551234567", Type: "Spaceship"})
	require.NoError(t, err)

	rows, err := leads.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TypeResidential, rows[0].Type)
}

func TestSubmitSanitizesFields(t *testing.T) {
	svc, leads, dispatcher := setupLeadService(t, &recordingNotifier{})
	defer dispatcher.Close()
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitLeadInput{
		Name:    `Ali'; DROP TABLE inquiries;--`,
		Phone:   "0551234567",
		City:    `Alg"iers`,
		Message: `hello\world`,
	})
	require.NoError(t, err)

	rows, err := leads.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0].Name, "'")
	assert.NotContains(t, rows[0].City, `"`)
	assert.NotContains(t, rows[0].Message, `\`)
}

func TestSubmitSucceedsWhenNotificationFails(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("telegram unreachable")}
	svc, leads, dispatcher := setupLeadService(t, notifier)
	ctx := context.Background()

	result, err := svc.Submit(ctx, SubmitLeadInput{Name: "Ali", Phone: "0551234567"})
	require.NoError(t, err, "a captured lead is a success regardless of notification delivery")
	assert.NotZero(t, result.ID)

	rows, listErr := leads.ListNewestFirst(ctx)
	require.NoError(t, listErr)
	assert.Len(t, rows, 1)

	dispatcher.Close()
	assert.EqualValues(t, 1, notifier.sent.Load())
}

func TestListReturnsLeadsAndStats(t *testing.T) {
	svc, _, dispatcher := setupLeadService(t, &recordingNotifier{})
	defer dispatcher.Close()
	ctx := context.Background()

	submissions := []SubmitLeadInput{
		{Name: "Ali", Phone: "0551234567"},
		{Name: "Sara", Phone: "0661234567", Type: domain.TypeCommercial},
		{Name: "Omar", Phone: "0771234567", Type: domain.TypeIndustrial},
	}
	for _, in := range submissions {
		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	}

	result, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Len(t, result.Leads, len(submissions))
	assert.EqualValues(t, len(submissions), result.Stats.Total)
	assert.Equal(t, result.Stats.Total,
		result.Stats.Residential+result.Stats.Commercial+result.Stats.Industrial)
}

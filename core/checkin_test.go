package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atrium "github.com/awrgmu/mixcheckin/atrium/v1"
)

const memberCardHTML = `<div><span id="person_name">Jane Doe</span><div class="campus_id"><b>ID</b> 123456 </div></div>`

func detailedResponse(eligible bool, code string) string {
	return fmt.Sprintf(
		`{"success":true,"html":%q,"eligibility":{"code":%q,"eligible":%t}}`,
		memberCardHTML, code, eligible,
	)
}

func newCheckInService(t *testing.T, search http.HandlerFunc, mode ExtractionFailureMode) (*CheckInService, *Ledger, *DatabaseManager) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/do_login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/ajax/basic_search", search)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := atrium.NewAtriumClient(srv.URL, "operator", "hunter2", 5*time.Second, logger)
	require.NoError(t, client.Transport.Login(context.Background()))

	dm, err := New(memoryDSN(t), 1)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	ledger := NewLedger(dm, logger)
	policy := NewPolicy("DENY902", []int{1254375})
	return NewCheckInService(client, ledger, policy, mode, logger), ledger, dm
}

func staticSearch(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestCheckInAllow(t *testing.T) {
	svc, _, dm := newCheckInService(t, staticSearch(detailedResponse(true, "ALLOW100")), ExtractionDeny)

	result, err := svc.CheckIn(context.Background(), "12345")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, "Jane Doe", result.Name)
	assert.Equal(t, 123456, result.MemberID)
	assert.Empty(t, result.Workshops)

	// Check-in upserts the member regardless of prior visits.
	assert.Equal(t, int64(1), countMembers(t, dm))
}

func TestCheckInShowsCompletionHistory(t *testing.T) {
	svc, ledger, _ := newCheckInService(t, staticSearch(detailedResponse(true, "ALLOW100")), ExtractionDeny)
	ctx := context.Background()

	require.NoError(t, ledger.UpsertMember(ctx, 123456))
	workshop, err := ledger.CreateWorkshop(ctx, "Laser Cutting")
	require.NoError(t, err)
	_, err = ledger.RecordAttendance(ctx, 123456, workshop.ID)
	require.NoError(t, err)

	result, err := svc.CheckIn(ctx, "12345")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	require.Len(t, result.Workshops, 1)
	assert.Equal(t, "Laser Cutting", result.Workshops[0].Workshop.Name)
}

func TestCheckInVerdicts(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAllowed bool
	}{
		{
			name:        "ineligible non-alumnus denied",
			body:        detailedResponse(false, "DENY100"),
			wantAllowed: false,
		},
		{
			name:        "duplicate swipe denial admitted",
			body:        detailedResponse(false, "DENY902"),
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, dm := newCheckInService(t, staticSearch(tt.body), ExtractionDeny)

			result, err := svc.CheckIn(context.Background(), "12345")
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, result.Allowed)

			// Membership bookkeeping happens even for denied visitors.
			assert.Equal(t, int64(1), countMembers(t, dm))
			if !tt.wantAllowed {
				assert.Equal(t, memberCardHTML, result.HTML)
			}
		})
	}
}

func TestCheckInAlumnusOverride(t *testing.T) {
	body := fmt.Sprintf(
		`{"success":true,"html":%q,"eligibility":{"code":"DENY100","eligible":false}}`,
		`<span id="person_name">Old Timer</span><div class="campus_id">1254375</div>`,
	)
	svc, _, _ := newCheckInService(t, staticSearch(body), ExtractionDeny)

	result, err := svc.CheckIn(context.Background(), "12345")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1254375, result.MemberID)
}

func TestCheckInProceedsAfterSessionExpiry(t *testing.T) {
	var searches int
	search := func(w http.ResponseWriter, r *http.Request) {
		searches++
		if searches == 1 {
			w.Write([]byte(`{"success":false,"message":"log_out"}`))
			return
		}
		w.Write([]byte(detailedResponse(true, "ALLOW100")))
	}
	svc, _, _ := newCheckInService(t, search, ExtractionDeny)

	result, err := svc.CheckIn(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, 2, searches, "one retry after re-login")
	assert.True(t, result.Allowed, "check-in parses the retried response")
	assert.Equal(t, "Jane Doe", result.Name)
}

func TestCheckInUndetailedResponse(t *testing.T) {
	svc, _, dm := newCheckInService(t, staticSearch(`{"success":false,"message":"no matching member"}`), ExtractionDeny)

	result, err := svc.CheckIn(context.Background(), "12345")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, "no matching member", result.HTML)
	assert.Equal(t, int64(0), countMembers(t, dm))
}

func TestCheckInExtractionFailure(t *testing.T) {
	brokenBody := `{"success":true,"html":"<div>nothing useful</div>","eligibility":{"code":"ALLOW100","eligible":true}}`

	t.Run("deny mode disallows with the raw html", func(t *testing.T) {
		svc, _, _ := newCheckInService(t, staticSearch(brokenBody), ExtractionDeny)

		result, err := svc.CheckIn(context.Background(), "12345")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, "<div>nothing useful</div>", result.HTML)
	})

	t.Run("error mode surfaces a typed error", func(t *testing.T) {
		svc, _, _ := newCheckInService(t, staticSearch(brokenBody), ExtractionError)

		_, err := svc.CheckIn(context.Background(), "12345")
		assert.ErrorIs(t, err, atrium.ErrExtraction)
	})
}

func TestCheckInUpstreamDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/do_login", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := atrium.NewAtriumClient(srv.URL, "operator", "hunter2", time.Second, logger)
	require.NoError(t, client.Transport.Login(context.Background()))
	srv.Close()

	dm, err := New(memoryDSN(t), 1)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	svc := NewCheckInService(client, NewLedger(dm, logger), NewPolicy("DENY902", nil), ExtractionDeny, logger)

	result, err := svc.CheckIn(context.Background(), "12345")
	require.NoError(t, err, "upstream trouble degrades, never crashes")
	assert.False(t, result.Allowed)
	assert.NotEmpty(t, result.HTML)
}

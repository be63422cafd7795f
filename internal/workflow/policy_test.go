package workflow

import (
	"testing"

	"workflow-board-api/internal/models"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAllowedNext_Table(t *testing.T) {
	require.Equal(t, []models.TaskStatus{models.StatusInProgress}, AllowedNext(models.StatusBacklog))
	require.Equal(t, []models.TaskStatus{models.StatusReview}, AllowedNext(models.StatusInProgress))
	require.Equal(t, []models.TaskStatus{models.StatusDone}, AllowedNext(models.StatusReview))
	require.Empty(t, AllowedNext(models.StatusDone))
}

func TestAllowedNext_UnknownStatus(t *testing.T) {
	require.Empty(t, AllowedNext(models.TaskStatus("ARCHIVED")))
}

func TestAllowedNext_ReturnsCopy(t *testing.T) {
	first := AllowedNext(models.StatusBacklog)
	first[0] = models.StatusDone
	require.Equal(t, []models.TaskStatus{models.StatusInProgress}, AllowedNext(models.StatusBacklog))
}

func TestIsValidTransition_Chain(t *testing.T) {
	require.True(t, IsValidTransition(models.StatusBacklog, models.StatusInProgress))
	require.True(t, IsValidTransition(models.StatusInProgress, models.StatusReview))
	require.True(t, IsValidTransition(models.StatusReview, models.StatusDone))

	// No skips, no back-transitions
	require.False(t, IsValidTransition(models.StatusBacklog, models.StatusReview))
	require.False(t, IsValidTransition(models.StatusBacklog, models.StatusDone))
	require.False(t, IsValidTransition(models.StatusInProgress, models.StatusBacklog))
	require.False(t, IsValidTransition(models.StatusDone, models.StatusReview))
}

func TestIsValidTransition_SelfIsRejected(t *testing.T) {
	for _, s := range models.AllStatuses() {
		require.False(t, IsValidTransition(s, s), "self-transition must be rejected for %s", s)
	}
}

// The chain is strictly linear: a transition is valid exactly when the
// target immediately follows the source in board-column order.
func TestIsValidTransition_LinearChainProperty(t *testing.T) {
	order := models.AllStatuses()
	index := make(map[models.TaskStatus]int, len(order))
	for i, s := range order {
		index[s] = i
	}

	rapid.Check(t, func(t *rapid.T) {
		from := rapid.SampledFrom(order).Draw(t, "from")
		to := rapid.SampledFrom(order).Draw(t, "to")

		want := index[to] == index[from]+1
		require.Equal(t, want, IsValidTransition(from, to))
	})
}

func TestIsValidTransition_AgreesWithAllowedNext(t *testing.T) {
	statuses := append(models.AllStatuses(), models.TaskStatus("BOGUS"))

	rapid.Check(t, func(t *rapid.T) {
		from := rapid.SampledFrom(statuses).Draw(t, "from")
		to := rapid.SampledFrom(statuses).Draw(t, "to")

		inSet := false
		for _, s := range AllowedNext(from) {
			if s == to {
				inSet = true
			}
		}
		require.Equal(t, inSet, IsValidTransition(from, to))
	})
}

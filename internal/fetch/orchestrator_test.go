package fetch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/mixdl/internal/tracklist"
)

type fakeMatcher struct {
	locators map[string]string
	calls    []string
}

func (m *fakeMatcher) Match(_ context.Context, searchText string) (string, bool) {
	m.calls = append(m.calls, searchText)
	loc, ok := m.locators[searchText]
	return loc, ok
}

type fetchCall struct {
	locator, name, destination string
}

type fakeFetcher struct {
	fail  map[string]error
	calls []fetchCall
}

func (f *fakeFetcher) Fetch(_ context.Context, locator, name, destination string) (Result, error) {
	f.calls = append(f.calls, fetchCall{locator, name, destination})
	if err := f.fail[locator]; err != nil {
		return Result{}, err
	}
	return Result{Path: filepath.Join(destination, name+".mp3")}, nil
}

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func queries(titles ...string) []tracklist.ResolvedQuery {
	out := make([]tracklist.ResolvedQuery, 0, len(titles))
	for _, t := range titles {
		out = append(out, tracklist.ResolvedQuery{DisplayName: t + " Extended Mix", SearchText: t + " Extended Mix"})
	}
	return out
}

func noProvision(string) error { return nil }

func TestOrchestrator_ThreeQueriesMiddleUnmatched(t *testing.T) {
	matcher := &fakeMatcher{locators: map[string]string{
		"Opener Extended Mix": "https://www.youtube.com/watch?v=one",
		"Closer Extended Mix": "https://www.youtube.com/watch?v=three",
	}}
	fetcher := &fakeFetcher{fail: map[string]error{
		"https://www.youtube.com/watch?v=three": errors.New("ffmpeg not found"),
	}}
	sleeper := &sleepRecorder{}

	o := NewOrchestrator(matcher, fetcher,
		WithDelay(2*time.Second),
		WithSleep(sleeper.sleep),
		WithProvisioner(noProvision),
	)
	report := o.Run(context.Background(), queries("Opener", "Second Track", "Closer"), "/music/Set")

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, StatusDownloaded, report.Outcomes[0].Status)
	assert.Equal(t, StatusNoMatch, report.Outcomes[1].Status)
	assert.Equal(t, StatusFetchFailed, report.Outcomes[2].Status)
	assert.Equal(t, "ffmpeg not found", report.Outcomes[2].Detail)
	assert.Equal(t, "https://www.youtube.com/watch?v=three", report.Outcomes[2].Locator)

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.delays)
	assert.Equal(t, []string{"Opener Extended Mix", "Second Track Extended Mix", "Closer Extended Mix"}, matcher.calls)
	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, fetchCall{"https://www.youtube.com/watch?v=one", "Opener Extended Mix", "/music/Set"}, fetcher.calls[0])

	assert.False(t, report.Interrupted)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, Summary{Total: 3, Downloaded: 1, NoMatch: 1, FetchFailed: 1}, report.Summary())
	assert.Equal(t, queries("Second Track", "Closer"), report.Pending())
}

func TestOrchestrator_OutcomesFollowQueryOrder(t *testing.T) {
	titles := []string{"A", "B", "C", "D", "E"}
	locators := map[string]string{}
	for _, title := range titles {
		locators[title+" Extended Mix"] = "loc-" + title
	}
	sleeper := &sleepRecorder{}

	report := NewOrchestrator(&fakeMatcher{locators: locators}, &fakeFetcher{},
		WithSleep(sleeper.sleep), WithProvisioner(noProvision),
	).Run(context.Background(), queries(titles...), "dest")

	require.Len(t, report.Outcomes, len(titles))
	for i, title := range titles {
		assert.Equal(t, title+" Extended Mix", report.Outcomes[i].Query.DisplayName)
		assert.Equal(t, StatusDownloaded, report.Outcomes[i].Status)
	}
	assert.Len(t, sleeper.delays, len(titles)-1)
	assert.Equal(t, DefaultDelay, sleeper.delays[0])
}

func TestOrchestrator_EmptyQueries(t *testing.T) {
	provisioned := 0
	sleeper := &sleepRecorder{}
	fetcher := &fakeFetcher{}

	report := NewOrchestrator(&fakeMatcher{}, fetcher,
		WithSleep(sleeper.sleep),
		WithProvisioner(func(string) error { provisioned++; return nil }),
	).Run(context.Background(), nil, "dest")

	require.NotNil(t, report)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, sleeper.delays)
	assert.Zero(t, provisioned)
	assert.False(t, report.FinishedAt.IsZero())
}

func TestOrchestrator_ProvisionsBeforeFirstFetch(t *testing.T) {
	var events []string
	matcher := &fakeMatcher{locators: map[string]string{"A Extended Mix": "loc-a", "B Extended Mix": "loc-b"}}
	fetcher := FetcherFunc(func(_ context.Context, locator, name, destination string) (Result, error) {
		events = append(events, "fetch "+locator)
		return Result{Path: name}, nil
	})

	NewOrchestrator(matcher, fetcher,
		WithSleep(func(context.Context, time.Duration) error { return nil }),
		WithProvisioner(func(dir string) error { events = append(events, "provision "+dir); return nil }),
	).Run(context.Background(), queries("A", "B"), "dest")

	assert.Equal(t, []string{"provision dest", "fetch loc-a", "fetch loc-b"}, events)
}

func TestOrchestrator_ProvisionFailureFailsMatchedItems(t *testing.T) {
	matcher := &fakeMatcher{locators: map[string]string{"A Extended Mix": "loc-a"}}
	fetcher := &fakeFetcher{}

	report := NewOrchestrator(matcher, fetcher,
		WithSleep(func(context.Context, time.Duration) error { return nil }),
		WithProvisioner(func(string) error { return errors.New("read-only file system") }),
	).Run(context.Background(), queries("A", "B"), "dest")

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, StatusFetchFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Detail, "read-only")
	assert.Equal(t, StatusNoMatch, report.Outcomes[1].Status)
	assert.Empty(t, fetcher.calls)
}

func TestOrchestrator_AlreadyPresent(t *testing.T) {
	matcher := &fakeMatcher{locators: map[string]string{"A Extended Mix": "loc-a"}}
	fetcher := FetcherFunc(func(context.Context, string, string, string) (Result, error) {
		return Result{Path: "dest/A Extended Mix.mp3", AlreadyPresent: true}, nil
	})

	report := NewOrchestrator(matcher, fetcher, WithProvisioner(noProvision)).
		Run(context.Background(), queries("A"), "dest")

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, StatusDownloaded, report.Outcomes[0].Status)
	assert.Equal(t, DetailAlreadyPresent, report.Outcomes[0].Detail)
}

func TestOrchestrator_CancellationDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	matcher := &fakeMatcher{locators: map[string]string{"A Extended Mix": "loc-a", "B Extended Mix": "loc-b"}}
	var hooked []int

	report := NewOrchestrator(matcher, &fakeFetcher{},
		WithProvisioner(noProvision),
		WithSleep(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
		WithOutcomeHook(func(index, total int, _ Outcome) {
			assert.Equal(t, 3, total)
			hooked = append(hooked, index)
		}),
	).Run(ctx, queries("A", "B", "C"), "dest")

	assert.True(t, report.Interrupted)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, StatusDownloaded, report.Outcomes[0].Status)
	assert.Equal(t, []int{0}, hooked)
	assert.Equal(t, queries("B", "C"), report.Skipped)
	assert.Equal(t, queries("B", "C"), report.Pending())
}

func TestOrchestrator_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matcher := &fakeMatcher{}
	report := NewOrchestrator(matcher, &fakeFetcher{}, WithProvisioner(noProvision)).
		Run(ctx, queries("A"), "dest")

	assert.True(t, report.Interrupted)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, matcher.calls)
	assert.Equal(t, queries("A"), report.Skipped)
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}

func TestRunReport_Duration(t *testing.T) {
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	r := &RunReport{StartedAt: start}
	assert.Zero(t, r.Duration())

	r.FinishedAt = start.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, r.Duration())
}

package batch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/imagespy/archcheck/checker"
	"github.com/imagespy/archcheck/registry/mock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	mu      sync.Mutex
	checked []string
}

func (f *fakeChecker) Check(_ context.Context, image string) checker.Result {
	f.mu.Lock()
	f.checked = append(f.checked, image)
	f.mu.Unlock()

	switch {
	case strings.HasPrefix(image, "err"):
		return checker.Result{Status: checker.StatusError, Message: image}
	case strings.HasPrefix(image, "warn"):
		return checker.Result{Status: checker.StatusWarning, Message: image}
	default:
		return checker.Result{Status: checker.StatusSuccess, Message: image}
	}
}

func TestPoolRunner_Run(t *testing.T) {
	testcases := []struct {
		name             string
		workers          int
		images           []string
		expectedErrors   float64
		expectedWarnings float64
	}{
		{
			name:    "When one worker is configured it checks every image",
			workers: 1,
			images:  []string{"ubuntu", "warn-alpine", "err-busybox"},

			expectedErrors:   1,
			expectedWarnings: 1,
		},
		{
			name:    "When more workers than images are configured it checks every image",
			workers: 8,
			images:  []string{"err-a", "err-b", "c", "d", "warn-e"},

			expectedErrors:   2,
			expectedWarnings: 1,
		},
		{
			name:    "When no images are given it returns no items",
			workers: 0,
			images:  []string{},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeChecker{}
			r := NewRunner(fc, tc.workers, "")
			items, err := r.Run(context.Background(), tc.images)
			require.NoError(t, err)
			require.Len(t, items, len(tc.images))
			for i, image := range tc.images {
				assert.Equal(t, image, items[i].Image)
				assert.Equal(t, image, items[i].Result.Message)
			}

			assert.ElementsMatch(t, tc.images, fc.checked)
			assert.Equal(t, tc.expectedErrors, testutil.ToFloat64(errorCount))
			assert.Equal(t, tc.expectedWarnings, testutil.ToFloat64(warningCount))
		})
	}
}

func TestPoolRunner_Run_Dispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	client.EXPECT().
		FetchToken(gomock.Any(), "library/ubuntu").
		Return("", errors.New("timeout"))

	p := NewRunner(checker.NewChecker(client), 1, "").(*poolRunner)
	var dispatched []string
	p.dispatchFunc = func(ctx context.Context, images []string) []Item {
		dispatched = images
		items := []Item{}
		for _, image := range images {
			items = append(items, Item{Image: image, Result: p.process(job{ctx: ctx, image: image}).(checker.Result)})
		}

		return items
	}

	items, err := p.Run(context.Background(), []string{"ubuntu"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu"}, dispatched)
	assert.Equal(t, []Item{{Image: "ubuntu", Result: checker.Result{Status: checker.StatusError, Message: "Failed to get auth token: timeout"}}}, items)
}

func TestPoolRunner_Run_Push(t *testing.T) {
	var pushedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRunner(&fakeChecker{}, 2, srv.URL)
	_, err := r.Run(context.Background(), []string{"ubuntu"})
	require.NoError(t, err)
	assert.Equal(t, "/metrics/job/archcheck_batch", pushedPath)
}

func TestPoolRunner_Run_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRunner(&fakeChecker{}, 1, srv.URL)
	items, err := r.Run(context.Background(), []string{"ubuntu"})
	assert.Error(t, err)
	assert.Len(t, items, 1)
}

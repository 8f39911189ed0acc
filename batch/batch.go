package batch

import (
	"context"
	"sync"
	"time"

	"github.com/Jeffail/tunny"
	"github.com/imagespy/archcheck/checker"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

const (
	prometheusNamespace = "archcheck_batch"
)

var (
	completionTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "last_completion_timestamp_seconds",
		Help:      "The timestamp of the last completion of a batch run, successful or not.",
	})
	duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "duration_seconds",
		Help:      "The duration of the last batch run in seconds.",
	})
	errorCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "last_check_errors",
		Help:      "The number of checks that ended with status error during the last run.",
	})
	warningCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "last_check_warnings",
		Help:      "The number of checks that ended with status warning during the last run.",
	})
)

// ImageChecker checks the architectures of an image.
type ImageChecker interface {
	Check(ctx context.Context, image string) checker.Result
}

// Item is the result of checking one image of a batch.
type Item struct {
	Image  string         `json:"image"`
	Result checker.Result `json:"result"`
}

// Runner checks a list of images.
type Runner interface {
	Run(ctx context.Context, images []string) ([]Item, error)
}

type job struct {
	ctx   context.Context
	image string
}

type poolRunner struct {
	checker      ImageChecker
	dispatchFunc func(ctx context.Context, images []string) []Item
	promPusher   *push.Pusher
	workerCount  int
}

func (p *poolRunner) Run(ctx context.Context, images []string) ([]Item, error) {
	start := time.Now()
	items := p.dispatchFunc(ctx, images)

	var errs, warnings float64
	for _, item := range items {
		switch item.Result.Status {
		case checker.StatusError:
			errs++
		case checker.StatusWarning:
			warnings++
		}
	}

	errorCount.Set(errs)
	warningCount.Set(warnings)
	duration.Set(time.Since(start).Seconds())
	completionTime.SetToCurrentTime()
	if p.promPusher != nil {
		err := p.promPusher.Add()
		if err != nil {
			return items, errors.Wrap(err, "pushing metrics")
		}
	}

	return items, nil
}

func (p *poolRunner) process(payload interface{}) interface{} {
	j, ok := payload.(job)
	if !ok {
		log.Error("unable to cast payload to job")
		return checker.Result{Status: checker.StatusError, Message: "internal error"}
	}

	log.Debugf("checking image %s", j.image)
	return p.checker.Check(j.ctx, j.image)
}

func (p *poolRunner) dispatch(ctx context.Context, images []string) []Item {
	pool := tunny.NewFunc(p.workerCount, p.process)
	defer pool.Close()

	items := make([]Item, len(images))
	wg := &sync.WaitGroup{}
	wg.Add(len(images))
	for i, image := range images {
		go func() {
			defer wg.Done()
			r, ok := pool.Process(job{ctx: ctx, image: image}).(checker.Result)
			if !ok {
				r = checker.Result{Status: checker.StatusError, Message: "internal error"}
			}

			items[i] = Item{Image: image, Result: r}
		}()
	}

	wg.Wait()
	return items
}

// NewRunner returns a Runner that checks up to workers images at the same
// time. Metrics about each run are pushed to pushgatewayURL if it is set.
func NewRunner(c ImageChecker, workers int, pushgatewayURL string) Runner {
	if workers < 1 {
		workers = 1
	}

	p := &poolRunner{
		checker:     c,
		workerCount: workers,
	}

	if pushgatewayURL != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(completionTime, duration, errorCount, warningCount)
		p.promPusher = push.New(pushgatewayURL, "archcheck_batch").Gatherer(registry)
	}

	p.dispatchFunc = p.dispatch
	return p
}

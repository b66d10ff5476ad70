package gena

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
)

// minSleep bounds how often the scheduler wakes on its own, preventing
// a busy loop when a renewal time is in the past due to clock skew.
const minSleep = 1000 * time.Millisecond

type schedulerItem struct {
	service *model.Service
	renewAt time.Time
	index   int
}

type itemHeap []*schedulerItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].renewAt.Before(h[j].renewAt) }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *itemHeap) Push(x interface{}) {
	item := x.(*schedulerItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// renewer is the subset of Manager the Scheduler needs, split out so
// tests can supply a fake without a real network round trip.
type renewer interface {
	Renew(ctx context.Context, service *model.Service) error
}

// Scheduler is the single worker managing renewal of every subscribed
// Service, per spec.md §4.7. It renews any Service whose renewal time
// has passed, then sleeps until the next one is due (or minSleep,
// whichever is longer). Add/Remove wake it immediately.
type Scheduler struct {
	mgr    renewer
	logger logging.Logger

	mu    sync.Mutex
	items map[*model.Service]*schedulerItem
	heap  itemHeap

	wake   chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewScheduler(mgr renewer, logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Scheduler{
		mgr:    mgr,
		logger: logger,
		items:  make(map[*model.Service]*schedulerItem),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Add schedules service for renewal at renewAt, replacing any existing
// schedule for it. A zero renewAt (an infinite-timeout subscription, per
// model.Subscription.RenewalTime) is never due and is simply not
// scheduled.
func (s *Scheduler) Add(service *model.Service, renewAt time.Time) {
	if renewAt.IsZero() {
		s.Remove(service)
		return
	}
	s.mu.Lock()
	if existing, ok := s.items[service]; ok {
		heap.Remove(&s.heap, existing.index)
	}
	item := &schedulerItem{service: service, renewAt: renewAt}
	heap.Push(&s.heap, item)
	s.items[service] = item
	s.mu.Unlock()
	s.notifyWake()
}

// Remove drops service from the schedule, if present.
func (s *Scheduler) Remove(service *model.Service) {
	s.mu.Lock()
	if item, ok := s.items[service]; ok {
		heap.Remove(&s.heap, item.index)
		delete(s.items, service)
	}
	s.mu.Unlock()
	s.notifyWake()
}

func (s *Scheduler) notifyWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run blocks, renewing services as they come due, until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	for {
		sleep := s.nextSleep()
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stopCh:
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
			s.renewDue(ctx)
		}
	}
}

// Stop signals Run to return.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) nextSleep() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.heap.Len() == 0 {
		return minSleep
	}
	d := time.Until(s.heap[0].renewAt)
	if d < minSleep {
		return minSleep
	}
	return d
}

func (s *Scheduler) renewDue(ctx context.Context) {
	now := time.Now()
	var due []*schedulerItem

	s.mu.Lock()
	for s.heap.Len() > 0 && !s.heap[0].renewAt.After(now) {
		item := heap.Pop(&s.heap).(*schedulerItem)
		delete(s.items, item.service)
		due = append(due, item)
	}
	s.mu.Unlock()

	for _, item := range due {
		if err := s.mgr.Renew(ctx, item.service); err != nil {
			s.logger.Warn("subscription renewal failed, dropping from schedule",
				zap.String("serviceId", item.service.ServiceID()), zap.Error(err))
			continue
		}
		s.Add(item.service, item.service.Subscription().RenewalTime())
	}
}

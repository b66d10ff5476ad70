package upnp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/description"
	"github.com/nyxio/upnpcp/internal/gena"
	"github.com/nyxio/upnpcp/internal/httpclient"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
	"github.com/nyxio/upnpcp/internal/netif"
	"github.com/nyxio/upnpcp/internal/soapaction"
	"github.com/nyxio/upnpcp/internal/ssdpmsg"
	"github.com/nyxio/upnpcp/internal/ssdptransport"
)

// expirySweepInterval is how often the ControlPoint scans the device
// table for expired devices, per spec.md §5.
const expirySweepInterval = time.Second

// ControlPoint is the composition root: it owns the device table, the
// SSDP transports, the description-fetch worker pool, and the GENA
// subscribe manager, scheduler, and receiver. The zero value is not
// usable; build one with NewControlPoint.
type ControlPoint struct {
	logger              logging.Logger
	ifaceName           string
	searchMX            int
	descriptionWorkers  int
	receiverAddr        string
	returnFaultAsResult bool

	httpClient *httpclient.Client
	fetcher    *description.Fetcher
	invoker    *soapaction.Invoker

	receiver     *gena.Receiver
	subscribeMgr *gena.Manager
	scheduler    *gena.Scheduler

	ifaces []netif.Interface

	mu              sync.Mutex
	state           state
	devices         map[string]*model.Device
	discoveryListen []DiscoveryListener
	notifyListen    []NotifyEventListener
	inflight        map[string]bool
	pending         map[string]pendingFetch
	notifySockets   []*ssdptransport.NotifySocket

	fetchQueue chan string
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewControlPoint builds a ControlPoint from opts, applying no I/O.
func NewControlPoint(opts ...Option) (*ControlPoint, error) {
	cp := &ControlPoint{
		logger:             logging.Nop(),
		searchMX:           DefaultSearchMX,
		descriptionWorkers: DefaultDescriptionWorkers,
		receiverAddr:       DefaultReceiverAddr,
		devices:            make(map[string]*model.Device),
		inflight:           make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp, nil
}

// Initialize enumerates network interfaces and builds every internal
// component, but opens no sockets. Call Start to begin listening.
func (cp *ControlPoint) Initialize(ctx context.Context) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.state != stateUninitialized {
		return &StateError{Op: "initialize", State: cp.state.String()}
	}

	ifaces, err := cp.usableInterfaces()
	if err != nil {
		return &TransportError{Op: "initialize", Err: err}
	}
	if len(ifaces) == 0 {
		return &TransportError{Op: "initialize", Err: fmt.Errorf("no usable network interfaces")}
	}
	cp.ifaces = ifaces

	cp.httpClient = httpclient.New(httpclient.WithLogger(cp.logger))
	cp.fetcher = description.New(cp.httpClient, cp.logger)
	cp.invoker = soapaction.New(cp.httpClient, cp.logger)

	cp.receiver = gena.NewReceiver(cp.handleGenaEvent, cp.logger)
	cp.subscribeMgr = gena.NewManager(cp.httpClient, cp.logger, cp.callbackURLFor)
	cp.scheduler = gena.NewScheduler(cp.subscribeMgr, cp.logger)
	cp.subscribeMgr.AttachScheduler(cp.scheduler)

	cp.fetchQueue = make(chan string, 64)

	cp.state = stateInitialized
	return nil
}

func (cp *ControlPoint) usableInterfaces() ([]netif.Interface, error) {
	if cp.ifaceName != "" {
		iface, ok := netif.ByName(cp.ifaceName)
		if !ok {
			return nil, fmt.Errorf("interface %q not usable", cp.ifaceName)
		}
		return []netif.Interface{iface}, nil
	}
	return netif.Enumerate()
}

// Start binds the GENA event receiver and every interface's NotifySocket,
// and starts the scheduler, expiry sweep, and description-fetch workers.
func (cp *ControlPoint) Start(ctx context.Context) error {
	cp.mu.Lock()
	if cp.state != stateInitialized {
		defer cp.mu.Unlock()
		return &StateError{Op: "start", State: cp.state.String()}
	}
	cp.mu.Unlock()

	if err := cp.receiver.Start(cp.receiverAddr); err != nil {
		return &TransportError{Op: "start receiver", Err: err}
	}

	runCtx, cancel := context.WithCancel(ctx)
	cp.mu.Lock()
	cp.ctx = runCtx
	cp.cancel = cancel
	cp.mu.Unlock()

	for _, iface := range cp.ifaces {
		sock, err := ssdptransport.NewNotifySocket(iface.Net, iface.IPv4, cp.logger)
		if err != nil {
			cp.logger.Warn("cannot open notify socket", zap.String("iface", iface.Name), zap.Error(err))
			continue
		}
		cp.mu.Lock()
		cp.notifySockets = append(cp.notifySockets, sock)
		cp.mu.Unlock()

		cp.wg.Add(1)
		go func(s *ssdptransport.NotifySocket) {
			defer cp.wg.Done()
			if err := s.Run(runCtx, cp.onSSDPMessage); err != nil {
				cp.logger.Warn("notify socket stopped", zap.Error(err))
			}
		}(sock)
	}

	cp.wg.Add(1)
	go func() {
		defer cp.wg.Done()
		cp.scheduler.Run(runCtx)
	}()

	for i := 0; i < cp.descriptionWorkers; i++ {
		cp.wg.Add(1)
		go cp.fetchWorker(runCtx)
	}

	cp.wg.Add(1)
	go cp.expirySweepLoop(runCtx)

	cp.mu.Lock()
	cp.state = stateStarted
	cp.mu.Unlock()
	return nil
}

// Stop cancels every background goroutine, best-effort unsubscribes every
// active subscription, closes the sockets, and waits for shutdown.
func (cp *ControlPoint) Stop() error {
	cp.mu.Lock()
	if cp.state != stateStarted {
		defer cp.mu.Unlock()
		return &StateError{Op: "stop", State: cp.state.String()}
	}
	cp.state = stateStopped
	cancel := cp.cancel
	sockets := cp.notifySockets
	cp.mu.Unlock()

	cp.unsubscribeAll()

	if cancel != nil {
		cancel()
	}
	for _, s := range sockets {
		s.Close()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := cp.receiver.Stop(shutdownCtx); err != nil {
		cp.logger.Warn("receiver shutdown", zap.Error(err))
	}
	cp.scheduler.Stop()
	cp.wg.Wait()
	cp.httpClient.Close()
	return nil
}

// Terminate releases everything Stop did not and makes the ControlPoint
// unusable. After Terminate, every method that returns an error returns
// a *StateError, and the device table is empty.
func (cp *ControlPoint) Terminate() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.state != stateStopped && cp.state != stateInitialized {
		return &StateError{Op: "terminate", State: cp.state.String()}
	}
	cp.state = stateTerminated
	cp.devices = nil
	return nil
}

func (cp *ControlPoint) unsubscribeAll() {
	for _, d := range cp.GetDeviceList() {
		cp.unsubscribeDeviceTree(d.Device)
	}
}

func (cp *ControlPoint) unsubscribeDeviceTree(d *model.Device) {
	for _, s := range d.Services() {
		if s.Subscription() == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cp.subscribeMgr.Unsubscribe(ctx, s); err != nil {
			cp.logger.Debug("unsubscribe on stop failed", zap.String("serviceId", s.ServiceID()), zap.Error(err))
		}
		cancel()
	}
	for _, c := range d.Children() {
		cp.unsubscribeDeviceTree(c)
	}
}

func (cp *ControlPoint) checkStarted(op string) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.state != stateStarted {
		return &StateError{Op: op, State: cp.state.String()}
	}
	return nil
}

// Search sends an M-SEARCH for ssdp:all on every usable interface.
func (cp *ControlPoint) Search() error {
	return cp.SearchTarget(DefaultSearchTarget)
}

// SearchTarget sends an M-SEARCH for the given search target on every
// usable interface. Per-interface transport failures are logged and
// swallowed; SearchTarget only fails before any M-SEARCH is sent.
func (cp *ControlPoint) SearchTarget(target string) error {
	if err := cp.checkStarted("search"); err != nil {
		return err
	}
	cp.mu.Lock()
	ctx := cp.ctx
	ifaces := cp.ifaces
	cp.mu.Unlock()

	for _, iface := range ifaces {
		cp.wg.Add(1)
		go func(ni netif.Interface) {
			defer cp.wg.Done()
			sock, err := ssdptransport.NewSearchSocket(ni.Net, cp.logger)
			if err != nil {
				cp.logger.Warn("cannot open search socket", zap.String("iface", ni.Name), zap.Error(err))
				return
			}
			if err := sock.Search(ctx, target, cp.searchMX, cp.onSSDPMessage); err != nil {
				cp.logger.Warn("search failed", zap.String("iface", ni.Name), zap.Error(err))
			}
		}(iface)
	}
	return nil
}

// AddDiscoveryListener registers l for future OnDiscover/OnLost calls.
func (cp *ControlPoint) AddDiscoveryListener(l DiscoveryListener) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.discoveryListen = append(cp.discoveryListen, l)
}

// RemoveDiscoveryListener drops l; a removal mid-dispatch takes effect
// starting with the next event.
func (cp *ControlPoint) RemoveDiscoveryListener(l DiscoveryListener) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for i, existing := range cp.discoveryListen {
		if existing == l {
			cp.discoveryListen = append(cp.discoveryListen[:i], cp.discoveryListen[i+1:]...)
			return
		}
	}
}

// AddNotifyEventListener registers l for future OnNotifyEvent calls.
func (cp *ControlPoint) AddNotifyEventListener(l NotifyEventListener) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.notifyListen = append(cp.notifyListen, l)
}

// RemoveNotifyEventListener drops l.
func (cp *ControlPoint) RemoveNotifyEventListener(l NotifyEventListener) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for i, existing := range cp.notifyListen {
		if existing == l {
			cp.notifyListen = append(cp.notifyListen[:i], cp.notifyListen[i+1:]...)
			return
		}
	}
}

// GetDevice looks up a root device by UDN.
func (cp *ControlPoint) GetDevice(udn string) (*Device, bool) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	d, ok := cp.devices[udn]
	if !ok {
		return nil, false
	}
	return wrapDevice(cp, d), true
}

// GetDeviceList returns every currently known root device.
func (cp *ControlPoint) GetDeviceList() []*Device {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	out := make([]*Device, 0, len(cp.devices))
	for _, d := range cp.devices {
		out = append(out, wrapDevice(cp, d))
	}
	return out
}

// onSSDPMessage handles a validated M-SEARCH response or NOTIFY,
// updating the device table and enqueuing a description fetch for any
// UDN it hasn't seen, per spec.md §4.8. A known UDN only has its SSDP
// state refreshed; a changed LOCATION does not trigger a new fetch.
func (cp *ControlPoint) onSSDPMessage(msg *ssdpmsg.Message) {
	if msg.IsSearch {
		return
	}
	if msg.NTS == "ssdp:byebye" {
		cp.removeDevice(msg.UDN)
		return
	}

	now := time.Now()

	cp.mu.Lock()
	existing, known := cp.devices[msg.UDN]
	cp.mu.Unlock()

	if known {
		existing.Refresh(msg, now)
		return
	}

	if msg.Location == nil {
		cp.logger.Debug("dropping alive/response with no LOCATION for unknown device", zap.String("udn", msg.UDN))
		return
	}
	cp.enqueueFetch(msg.UDN, msg.Location.String(), msg, now)
}

// enqueueFetch schedules a description fetch for udn/location, deduping
// concurrent fetches of the same UDN with a non-blocking send so a full
// queue never stalls the SSDP receive goroutine.
func (cp *ControlPoint) enqueueFetch(udn, location string, msg *ssdpmsg.Message, receivedAt time.Time) {
	cp.mu.Lock()
	if cp.inflight[udn] {
		cp.mu.Unlock()
		return
	}
	cp.inflight[udn] = true
	cp.mu.Unlock()

	select {
	case cp.fetchQueue <- location:
		cp.pendingMsg(udn, msg, receivedAt)
	default:
		cp.logger.Warn("description fetch queue full, dropping", zap.String("udn", udn))
		cp.mu.Lock()
		delete(cp.inflight, udn)
		cp.mu.Unlock()
	}
}

// pendingMsg stashes the triggering message so fetchWorker can seed the
// built Device's initial refresh without re-plumbing it through the
// channel.
func (cp *ControlPoint) pendingMsg(udn string, msg *ssdpmsg.Message, receivedAt time.Time) {
	cp.mu.Lock()
	if cp.pending == nil {
		cp.pending = make(map[string]pendingFetch)
	}
	cp.pending[udn] = pendingFetch{msg: msg, receivedAt: receivedAt}
	cp.mu.Unlock()
}

type pendingFetch struct {
	msg        *ssdpmsg.Message
	receivedAt time.Time
}

func (cp *ControlPoint) fetchWorker(ctx context.Context) {
	defer cp.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case location, ok := <-cp.fetchQueue:
			if !ok {
				return
			}
			cp.fetchDescription(ctx, location)
		}
	}
}

func (cp *ControlPoint) fetchDescription(ctx context.Context, location string) {
	builder, err := cp.fetcher.Fetch(ctx, location)
	if err != nil {
		cp.logger.Warn("description fetch failed", zap.String("location", location), zap.Error(wrapFetchError(err)))
		cp.forgetInflightByLocation(location)
		return
	}

	cp.mu.Lock()
	pending, ok := cp.pending[builder.UDN]
	delete(cp.pending, builder.UDN)
	delete(cp.inflight, builder.UDN)
	cp.mu.Unlock()

	if !ok {
		cp.logger.Warn("fetched description with no pending trigger message", zap.String("udn", builder.UDN))
		return
	}

	device, err := builder.Build(pending.msg, pending.receivedAt)
	if err != nil {
		cp.logger.Warn("description build failed", zap.String("udn", builder.UDN), zap.Error(wrapFetchError(err)))
		return
	}

	cp.mu.Lock()
	cp.devices[device.UDN()] = device
	cp.mu.Unlock()

	cp.dispatchDiscover(device)
}

func (cp *ControlPoint) forgetInflightByLocation(location string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for udn, p := range cp.pending {
		if p.msg.Location != nil && p.msg.Location.String() == location {
			delete(cp.pending, udn)
			delete(cp.inflight, udn)
		}
	}
}

func (cp *ControlPoint) removeDevice(udn string) {
	cp.mu.Lock()
	device, ok := cp.devices[udn]
	if ok {
		delete(cp.devices, udn)
	}
	cp.mu.Unlock()
	if ok {
		cp.invalidateDeviceTreeSubscriptions(device)
		cp.dispatchLost(device)
	}
}

// invalidateDeviceTreeSubscriptions clears every Subscription owned by
// d or one of its children and drops each from the renewal scheduler,
// without sending a live UNSUBSCRIBE: d is already expired or gone, so
// the endpoint is not expected to answer.
func (cp *ControlPoint) invalidateDeviceTreeSubscriptions(d *model.Device) {
	for _, s := range d.Services() {
		if s.Subscription() == nil {
			continue
		}
		s.SetSubscription(nil)
		if cp.scheduler != nil {
			cp.scheduler.Remove(s)
		}
	}
	for _, c := range d.Children() {
		cp.invalidateDeviceTreeSubscriptions(c)
	}
}

// expirySweepLoop scans the device table once per expirySweepInterval,
// dispatching OnLost for anything that fell past its ExpiresAt.
func (cp *ControlPoint) expirySweepLoop(ctx context.Context) {
	defer cp.wg.Done()
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cp.sweepExpired()
		}
	}
}

func (cp *ControlPoint) sweepExpired() {
	now := time.Now()
	var expired []*model.Device

	cp.mu.Lock()
	for udn, d := range cp.devices {
		if d.IsExpired(now) {
			expired = append(expired, d)
			delete(cp.devices, udn)
		}
	}
	cp.mu.Unlock()

	for _, d := range expired {
		cp.invalidateDeviceTreeSubscriptions(d)
		cp.dispatchLost(d)
	}
}

func (cp *ControlPoint) dispatchDiscover(d *model.Device) {
	cp.mu.Lock()
	listeners := make([]DiscoveryListener, len(cp.discoveryListen))
	copy(listeners, cp.discoveryListen)
	cp.mu.Unlock()

	wrapped := wrapDevice(cp, d)
	for _, l := range listeners {
		l.OnDiscover(wrapped)
	}
}

func (cp *ControlPoint) dispatchLost(d *model.Device) {
	cp.mu.Lock()
	listeners := make([]DiscoveryListener, len(cp.discoveryListen))
	copy(listeners, cp.discoveryListen)
	cp.mu.Unlock()

	wrapped := wrapDevice(cp, d)
	for _, l := range listeners {
		l.OnLost(wrapped)
	}
}

// handleGenaEvent is the gena.EventHandler wired to the Receiver at
// Initialize time. It resolves the target Service by UDN/serviceId,
// checks the NOTIFY's SID against the Service's current subscription,
// and dispatches OnNotifyEvent for each property.
func (cp *ControlPoint) handleGenaEvent(evt gena.NotifyEvent) error {
	cp.mu.Lock()
	root, ok := cp.rootFor(evt.UDN)
	cp.mu.Unlock()
	if !ok {
		return &gena.UnknownSubscriptionError{SID: evt.SID}
	}

	device := findDeviceByUDN(root, evt.UDN)
	if device == nil {
		return &gena.UnknownSubscriptionError{SID: evt.SID}
	}
	service, ok := device.FindService(evt.ServiceID)
	if !ok {
		return &gena.UnknownSubscriptionError{SID: evt.SID}
	}

	sub := service.Subscription()
	if sub == nil || sub.SID != evt.SID {
		return &gena.UnknownSubscriptionError{SID: evt.SID}
	}

	wrapped := wrapService(cp, service)
	cp.mu.Lock()
	listeners := make([]NotifyEventListener, len(cp.notifyListen))
	copy(listeners, cp.notifyListen)
	cp.mu.Unlock()

	for _, prop := range evt.Properties {
		for _, l := range listeners {
			l.OnNotifyEvent(wrapped, evt.Seq, prop.Name, prop.Value)
		}
	}
	return nil
}

// rootFor finds the root device whose tree contains udn. The device
// table is keyed by root UDN only; embedded devices are reached by
// walking Children.
func (cp *ControlPoint) rootFor(udn string) (*model.Device, bool) {
	if d, ok := cp.devices[udn]; ok {
		return d, true
	}
	for _, d := range cp.devices {
		if findDeviceByUDN(d, udn) != nil {
			return d, true
		}
	}
	return nil, false
}

func findDeviceByUDN(d *model.Device, udn string) *model.Device {
	if d.UDN() == udn {
		return d
	}
	for _, c := range d.Children() {
		if found := findDeviceByUDN(c, udn); found != nil {
			return found
		}
	}
	return nil
}

// callbackURLFor renders the CALLBACK URL a SUBSCRIBE advertises for
// service, rooted at the receiver's actual bound port (only known after
// Start) and a local interface address able to reach the device.
func (cp *ControlPoint) callbackURLFor(service *model.Service) string {
	base := cp.receiverBaseURL()
	return gena.CallbackURL(base, service.Device().UDN(), service.ServiceID())
}

func (cp *ControlPoint) receiverBaseURL() string {
	addr := cp.receiver.Addr()
	_, port, _ := net.SplitHostPort(addr.String())
	return fmt.Sprintf("http://%s:%s", cp.localIP(), port)
}

// localIP picks an address from the first usable interface to embed in
// CALLBACK URLs. Devices only need a single reachable address; when more
// than one interface is in play this is a best-effort choice, matching
// how single-callback UPnP control points behave in practice.
func (cp *ControlPoint) localIP() string {
	if len(cp.ifaces) == 0 {
		return "127.0.0.1"
	}
	return cp.ifaces[0].IPv4.IP.String()
}

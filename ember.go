package ember

import (
	"net"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/internal/construct"
	"github.com/ember-web/ember/internal/protocol/http1"
	"github.com/ember-web/ember/router"
	"github.com/ember-web/ember/transport"
)

type hooks struct {
	OnStart, OnStop func()
}

// App is the ember entrypoint: binds the address, accepts connections and serves each
// one in its own goroutine until Stop is called or the listener fails.
type App struct {
	addr  string
	cfg   *config.Config
	hooks hooks
	tcp   *transport.TCP
}

// New returns a new App instance with the default configuration.
func New(addr string) *App {
	return &App{
		addr: addr,
		cfg:  config.Default(),
		tcp:  transport.NewTCP(),
	}
}

// Tune replaces the default configuration.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Config grants access to the current configuration, mainly to re-tune runtime-mutable
// knobs while the app is running.
func (a *App) Config() *config.Config {
	return a.cfg
}

// NotifyOnStart calls the callback at the moment when the server is bound. However,
// it isn't strongly guaranteed that it'll be able to accept new connections immediately.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment when the server is down and all the
// connection goroutines have finished.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve starts the web-application with the passed router.
func (a *App) Serve(r router.Router) error {
	if err := a.tcp.Bind(a.addr); err != nil {
		return err
	}

	if a.hooks.OnStart != nil {
		a.hooks.OnStart()
	}

	err := a.tcp.Listen(a.cfg.NET, func(conn net.Conn) {
		client := construct.Client(a.cfg.NET, conn)
		http1.Initialize(a.cfg, r, client).Serve()
	})

	a.tcp.Close()
	a.tcp.Wait()

	if a.hooks.OnStop != nil {
		a.hooks.OnStop()
	}

	return err
}

// Stop gracefully interrupts the accept loop. Already established connections keep
// being served until their clients leave.
func (a *App) Stop() {
	a.tcp.Stop()
}

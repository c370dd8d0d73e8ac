package api

import (
	"net/url"
	"time"

	"github.com/IsaacT30/airport-console/core/auth/session"
	"github.com/IsaacT30/airport-console/core/rest"
	"github.com/IsaacT30/airport-console/log"
	"github.com/IsaacT30/airport-console/metrics"
)

// Operations service collection paths.
const (
	FlightsPath     = "/api/flights/"
	BookingsPath    = "/api/bookings/"
	PassengersPath  = "/api/passengers/"
	AirlinesPath    = "/api/airlines/"
	AirportsPath    = "/api/airports/"
	CrewPath        = "/api/crew/"
	MaintenancePath = "/api/maintenance/"
)

// ClientConfig carries everything needed to stand up the two service
// clients.
type ClientConfig struct {
	AuthURL string
	OpsURL  string
	Timeout time.Duration
	Store   session.Store
	// DeduplicateRenewals collapses concurrent refresh exchanges into
	// one. Leave off for backends that tolerate parallel refreshes.
	DeduplicateRenewals bool
	Logger              *log.Logger
	Metrics             *metrics.Metrics
}

// Client bundles the auth service surface and the operations service's
// resources behind one handle. All resource clients share the session
// store and renewer, so one renewed token serves every service.
type Client struct {
	Auth    *Auth
	Renewer *rest.Renewer

	Flights     *Resource[Flight]
	Bookings    *Resource[Booking]
	Passengers  *Resource[Passenger]
	Airlines    *Resource[Airline]
	Airports    *Resource[Airport]
	Crew        *Resource[CrewMember]
	Maintenance *Resource[MaintenanceRecord]
}

// NewClient wires the renewer against the auth service's refresh
// endpoint and hangs every resource off the operations service.
func NewClient(cfg ClientConfig) (*Client, error) {
	refreshURL, err := url.JoinPath(cfg.AuthURL, RefreshPath)
	if err != nil {
		return nil, err
	}

	renewerOpts := []rest.RenewerOption{rest.WithDeduplication(cfg.DeduplicateRenewals)}
	if cfg.Logger != nil {
		renewerOpts = append(renewerOpts, rest.WithRenewerLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		renewerOpts = append(renewerOpts, rest.WithRenewerMetrics(cfg.Metrics))
	}
	renewer := rest.NewRenewer(refreshURL, cfg.Store, renewerOpts...)

	shared := []rest.Option{
		rest.WithCredentials(cfg.Store),
		rest.WithRenewer(renewer),
	}
	if cfg.Timeout > 0 {
		shared = append(shared, rest.WithTimeout(cfg.Timeout))
	}
	if cfg.Logger != nil {
		shared = append(shared, rest.WithLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		shared = append(shared, rest.WithMetrics(cfg.Metrics))
	}

	authClient := rest.New(cfg.AuthURL, append([]rest.Option{rest.WithService("auth")}, shared...)...)
	opsClient := rest.New(cfg.OpsURL, append([]rest.Option{rest.WithService("ops")}, shared...)...)

	return &Client{
		Auth:        NewAuth(authClient),
		Renewer:     renewer,
		Flights:     NewResource[Flight](opsClient, FlightsPath),
		Bookings:    NewResource[Booking](opsClient, BookingsPath),
		Passengers:  NewResource[Passenger](opsClient, PassengersPath),
		Airlines:    NewResource[Airline](opsClient, AirlinesPath),
		Airports:    NewResource[Airport](opsClient, AirportsPath),
		Crew:        NewResource[CrewMember](opsClient, CrewPath),
		Maintenance: NewResource[MaintenanceRecord](opsClient, MaintenancePath),
	}, nil
}

package handlers

import (
	"sync"

	intconfig "safareasy/internal/config"
	"safareasy/internal/http/middleware"
	"safareasy/internal/notify"
	"safareasy/internal/repositories"
	"safareasy/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	depsMu    sync.RWMutex
	notifier  notify.Notifier
	feePolicy services.FeePolicy
	jwtSecret []byte
)

// Configure stores the process-wide collaborators handlers need. Repositories
// are built per request and fall back to the shared DB handle.
func Configure(env intconfig.Env, n notify.Notifier) {
	depsMu.Lock()
	defer depsMu.Unlock()
	notifier = n
	feePolicy = services.NewConfigFeePolicy(env)
	jwtSecret = []byte(env.JWTSecret)
}

func getNotifier() notify.Notifier {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return notifier
}

func getFeePolicy() services.FeePolicy {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return feePolicy
}

func getJWTSecret() []byte {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return jwtSecret
}

func newQueueService(c *gin.Context) services.QueueService {
	return services.QueueService{
		TripRepo:  repositories.TripRepository{},
		QueueRepo: repositories.QueueRepository{},
		Notifier:  getNotifier(),
		RequestID: middleware.GetRequestID(c),
	}
}

func newReallocationService(c *gin.Context) services.ReallocationService {
	return services.ReallocationService{
		TripRepo:    repositories.TripRepository{},
		TicketRepo:  repositories.TicketRepository{},
		ReallocRepo: repositories.ReallocationRepository{},
		Notifier:    getNotifier(),
		RequestID:   middleware.GetRequestID(c),
	}
}

func newPayrollService(c *gin.Context) services.PayrollService {
	return services.PayrollService{
		TripRepo:    repositories.TripRepository{},
		PayrollRepo: repositories.PayrollRepository{},
		PaymentRepo: repositories.PaymentRepository{},
		Policy:      getFeePolicy(),
		Notifier:    getNotifier(),
		RequestID:   middleware.GetRequestID(c),
	}
}

func newTripService(c *gin.Context) services.TripService {
	return services.TripService{
		TripRepo:   repositories.TripRepository{},
		QueueRepo:  repositories.QueueRepository{},
		RouteRepo:  repositories.RouteRepository{},
		ReallocSvc: newReallocationService(c),
		PayrollSvc: newPayrollService(c),
		Notifier:   getNotifier(),
		RequestID:  middleware.GetRequestID(c),
	}
}

func newTicketService(c *gin.Context) services.TicketService {
	return services.TicketService{
		TripRepo:    repositories.TripRepository{},
		TicketRepo:  repositories.TicketRepository{},
		PaymentRepo: repositories.PaymentRepository{},
		Notifier:    getNotifier(),
		RequestID:   middleware.GetRequestID(c),
	}
}

func newDocsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		TicketRepo:  repositories.TicketRepository{},
		TripRepo:    repositories.TripRepository{},
		PayrollRepo: repositories.PayrollRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
}

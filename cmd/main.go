package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/heliocrm/api-leads/internal/auth"
	"github.com/heliocrm/api-leads/internal/cache"
	"github.com/heliocrm/api-leads/internal/calllog"
	"github.com/heliocrm/api-leads/internal/events"
	"github.com/heliocrm/api-leads/internal/lead"
	appmiddleware "github.com/heliocrm/api-leads/internal/middleware"
	"github.com/heliocrm/api-leads/internal/notification"
	"github.com/heliocrm/api-leads/internal/ticket"
	"github.com/heliocrm/api-leads/internal/user"
	"github.com/heliocrm/api-leads/internal/utils/db"
)

func main() {
	_ = godotenv.Load()

	database, err := db.Connect()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := database.AutoMigrate(
		&user.User{},
		&lead.Lead{},
		&calllog.CallLog{},
		&calllog.CallLaterLog{},
		&ticket.Ticket{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cache: redis when configured, in-process otherwise
	var c cache.Cache = cache.NewMemory()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c = cache.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
	}

	// Events: RabbitMQ when configured
	var publisher events.Publisher = events.Noop{}
	if url := os.Getenv("AMQP_URL"); url != "" {
		queue := os.Getenv("AMQP_QUEUE")
		if queue == "" {
			queue = "lead_events"
		}
		amqpPub, err := events.NewAMQPPublisher(url, queue)
		if err != nil {
			log.Fatal("failed to connect to broker:", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	notifier := notification.NewWebhook(os.Getenv("ALERT_WEBHOOK_URL"))

	leadService := lead.NewService(database, c, publisher, notifier)

	// Handlers
	leadHandler := lead.NewHandler(database, leadService)
	callLogHandler := calllog.NewHandler(database)
	ticketHandler := ticket.NewHandler(database)
	userHandler := user.NewHandler(database)

	// Router
	r := mux.NewRouter()
	r.Use(appmiddleware.Metrics)

	r.HandleFunc("/login", auth.LoginHandler(database)).Methods("POST")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)

	adminOnly := auth.RequireRoles(string(user.RoleTeamLead), string(user.RoleSuperAdmin))
	superAdminOnly := auth.RequireRoles(string(user.RoleSuperAdmin))
	salesmanOnly := auth.RequireRoles(string(user.RoleSalesman))

	// Lead routes
	api.Handle("/leads", salesmanOnly(http.HandlerFunc(leadHandler.Create))).Methods("POST")
	api.HandleFunc("/leads", leadHandler.List).Methods("GET")
	api.Handle("/leads/unassigned", adminOnly(http.HandlerFunc(leadHandler.ListUnassigned))).Methods("GET")
	api.HandleFunc("/leads/activity/today", leadHandler.TodayActivity).Methods("GET")
	api.Handle("/leads/bulk-assign", adminOnly(http.HandlerFunc(leadHandler.BulkAssign))).Methods("POST")
	api.Handle("/leads/bulk-assign-unassigned", adminOnly(http.HandlerFunc(leadHandler.BulkAssignUnassigned))).Methods("POST")
	api.HandleFunc("/leads/{id}", leadHandler.Get).Methods("GET")
	api.HandleFunc("/leads/{id}", leadHandler.Update).Methods("PUT")
	api.HandleFunc("/leads/{id}/status", leadHandler.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/leads/{id}/operator", leadHandler.Reassign).Methods("PATCH")
	api.HandleFunc("/leads/{id}/technician", leadHandler.AssignTechnician).Methods("PATCH")

	// Interaction log routes
	api.HandleFunc("/leads/{id}/call-logs", leadHandler.LogCall).Methods("POST")
	api.HandleFunc("/leads/{id}/call-logs", callLogHandler.ListCallLogs).Methods("GET")
	api.HandleFunc("/leads/{id}/call-laters", leadHandler.LogCallLater).Methods("POST")
	api.HandleFunc("/leads/{id}/call-laters", callLogHandler.ListCallLaterLogs).Methods("GET")

	// Ticket routes
	api.HandleFunc("/tickets", ticketHandler.Create).Methods("POST")
	api.HandleFunc("/tickets", ticketHandler.List).Methods("GET")
	api.HandleFunc("/tickets/{id}", ticketHandler.Get).Methods("GET")
	api.HandleFunc("/tickets/{id}", ticketHandler.Update).Methods("PUT")
	api.HandleFunc("/tickets/{id}/status", ticketHandler.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/tickets/{id}/technician", ticketHandler.AssignTechnician).Methods("PATCH")

	// User routes
	api.Handle("/users", superAdminOnly(http.HandlerFunc(userHandler.Create))).Methods("POST")
	api.HandleFunc("/users", userHandler.List).Methods("GET")
	api.HandleFunc("/users/{id}", userHandler.Get).Methods("GET")
	api.Handle("/users/{id}/active", superAdminOnly(http.HandlerFunc(userHandler.SetActive))).Methods("PATCH")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("server listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyenthanhduc0901/clinic-app/internal/api"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/account"
	appointmentClient "github.com/nguyenthanhduc0901/clinic-app/internal/client/appointment"
	invoiceClient "github.com/nguyenthanhduc0901/clinic-app/internal/client/invoice"
	recordClient "github.com/nguyenthanhduc0901/clinic-app/internal/client/record"
	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/mock"
	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
	"github.com/nguyenthanhduc0901/clinic-app/internal/query"
	"github.com/nguyenthanhduc0901/clinic-app/internal/session"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/metrics"
)

const usage = `usage: portalctl [-mock] <command> [args]

commands:
  login <email> <password>
  me
  profile
  appointments [date] [status]
  appointment <id>
  create <YYYY-MM-DD> [notes]
  reschedule <id> <YYYY-MM-DD>
  cancel <id>
  invoices [status]
  invoice <id>
  invoice-pdf <id> <out.pdf>
  records
  record <id>
  attachments <record-id>
  record-pdf <id> <out.pdf>
  logout
`

func main() {
	mockMode := flag.Bool("mock", false, "run against an in-process mock backend")
	flag.Parse()

	log := logger.NewLogger(nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}
	if *mockMode {
		cfg.API.MockMode = true
	}

	if cfg.API.MockMode {
		backend := mock.NewServer()
		defer backend.Close()
		cfg.API.BaseURLs = map[string]string{config.PlatformDefault: backend.URL}
		cfg.Platform = config.PlatformDefault
	}

	tokens := token.NewStore(cfg.Token, log)
	m := metrics.NewMetrics("clinic_portal", prometheus.NewRegistry())
	apiClient := api.NewClient(cfg, tokens, log, m)

	appointments := appointmentClient.NewClient(apiClient, cfg.API.UseMeEndpoints || cfg.API.MockMode)
	invoices := invoiceClient.NewClient(apiClient)
	records := recordClient.NewClient(apiClient)
	accounts := account.NewClient(apiClient, tokens)

	store := query.NewMemoryStore(cfg.Cache.CleanupInterval)
	if cfg.Cache.RedisURL != "" {
		redisStore, err := query.NewRedisStore(cfg.Cache.RedisURL, log)
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		store = redisStore
	}
	cache := query.NewCache(store, log, m)
	queries := query.New(cache, cfg.Cache, appointments, invoices, records, accounts)

	sess := session.New(tokens, queries, cfg.Session, log, func(route string) {
		fmt.Fprintf(os.Stderr, "-> redirect %s\n", route)
	})
	apiClient.SetSessionExpiredHook(sess.HandleExpired)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(ctx, queries, sess, args); err != nil {
		log.Error(err, "command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, queries *query.Queries, sess *session.Session, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		if len(rest) < 2 {
			return fmt.Errorf("login requires email and password")
		}
		resp, err := queries.Login(ctx, model.LoginRequest{Email: rest[0], Password: rest[1]})
		if err != nil {
			return err
		}
		sess.Refresh()
		return dump(resp.User)

	case "me":
		me, err := queries.Me(ctx)
		if err != nil {
			return err
		}
		return dump(me)

	case "profile":
		profile, err := queries.Profile(ctx)
		if err != nil {
			return err
		}
		return dump(profile)

	case "appointments":
		params := model.ListAppointmentsParams{}
		if len(rest) > 0 {
			params.Date = rest[0]
		}
		if len(rest) > 1 {
			params.Status = model.AppointmentStatus(rest[1])
		}
		result, err := queries.ListAppointments(ctx, params)
		if err != nil {
			return err
		}
		return dump(result)

	case "appointment":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		appt, err := queries.AppointmentDetail(ctx, id)
		if err != nil {
			return err
		}
		return dump(appt)

	case "create":
		if len(rest) == 0 {
			return fmt.Errorf("create requires a date")
		}
		req := model.CreateAppointmentRequest{AppointmentDate: rest[0]}
		if len(rest) > 1 {
			req.Notes = rest[1]
		}
		appt, err := queries.CreateAppointment(ctx, req)
		if err != nil {
			return err
		}
		return dump(appt)

	case "reschedule":
		if len(rest) < 2 {
			return fmt.Errorf("reschedule requires id and date")
		}
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		appt, err := queries.RescheduleAppointment(ctx, id, model.RescheduleAppointmentRequest{AppointmentDate: rest[1]})
		if err != nil {
			return err
		}
		return dump(appt)

	case "cancel":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		appt, err := queries.CancelAppointment(ctx, id)
		if err != nil {
			return err
		}
		return dump(appt)

	case "invoices":
		params := model.ListInvoicesParams{}
		if len(rest) > 0 {
			params.Status = model.InvoiceStatus(rest[0])
		}
		result, err := queries.ListInvoices(ctx, params)
		if err != nil {
			return err
		}
		return dump(result)

	case "invoice":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		detail, err := queries.InvoiceDetail(ctx, id)
		if err != nil {
			return err
		}
		return dump(detail)

	case "invoice-pdf":
		return savePDF(ctx, rest, queries.ExportInvoicePDF)

	case "records":
		result, err := queries.ListMedicalRecords(ctx, model.ListMedicalRecordsParams{})
		if err != nil {
			return err
		}
		return dump(result)

	case "record":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		detail, err := queries.MedicalRecordDetail(ctx, id)
		if err != nil {
			return err
		}
		return dump(detail)

	case "attachments":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		result, err := queries.MedicalRecordAttachments(ctx, id)
		if err != nil {
			return err
		}
		return dump(result)

	case "record-pdf":
		return savePDF(ctx, rest, queries.ExportMedicalRecordPDF)

	case "logout":
		sess.Logout()
		fmt.Println("logged out")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseID(rest []string) (int64, error) {
	if len(rest) == 0 {
		return 0, fmt.Errorf("an id is required")
	}
	return strconv.ParseInt(rest[0], 10, 64)
}

func savePDF(ctx context.Context, rest []string, export func(context.Context, int64) ([]byte, error)) error {
	if len(rest) < 2 {
		return fmt.Errorf("an id and output path are required")
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return err
	}
	data, err := export(ctx, id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(rest[1], data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), rest[1])
	return nil
}

func dump(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

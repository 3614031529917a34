package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/config"
	"hrdesk/internal/csvexport"
	"hrdesk/internal/domain"
	"hrdesk/internal/email/noop"
	"hrdesk/internal/email/smtp"
	"hrdesk/internal/normalizer"
	"hrdesk/internal/port"
	"hrdesk/internal/repository/sqlite"
	"hrdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: hrdesk <command> [flags]

commands:
  import <file>        run the bulk-import pipeline on a CSV/XLSX/DOCX file
  train                fit the imputer artifact from stored employee records
  export-audit <file>  write the imputation audit trail as CSV
  create-user          create a user account
  search-employees     find employees by name, job title or role
  checkin              open today's attendance session for an employee
  checkout             close an employee's open attendance session
  purge-trash          permanently remove expired soft-deleted contracts`)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := sqlite.NewUserRepository(db)
	employeeRepo := sqlite.NewEmployeeRepository(db)
	auditRepo := sqlite.NewImputationAuditRepository(db)
	statsRepo := sqlite.NewStatsRepository(db)
	contractRepo := sqlite.NewContractRepository(db)
	attendanceRepo := sqlite.NewAttendanceRepository(db)

	// Initialize email
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "smtp":
		sender = smtp.NewSMTPSender(cfg.Email)
	default:
		sender = noop.NewNoopSender()
	}
	userSvc := service.NewUserService(userRepo, sender)
	attendanceSvc := service.NewAttendanceService(attendanceRepo)

	mappings := normalizer.NewMappingStore(cfg.Import.MappingStorePath)
	importSvc := service.NewImportService(
		userRepo, employeeRepo, auditRepo, statsRepo,
		mappings, cfg.Import.ModelPath, cfg.Import.Threshold, cfg.Import.MaxErrors)
	contractSvc := service.NewContractService(contractRepo)

	ctx := context.Background()
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		threshold := fs.Int("threshold", 0, "fuzzy header-match threshold override (0-100)")
		dryRun := fs.Bool("dry-run", false, "run the pipeline without persisting rows")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			usage()
			return fmt.Errorf("import requires exactly one file argument")
		}
		summary, err := importSvc.ImportFile(ctx, fs.Arg(0), service.ImportOptions{
			Threshold: *threshold,
			DryRun:    *dryRun,
		})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)

	case "train":
		return importSvc.TrainImputer(ctx)

	case "export-audit":
		if len(args) != 2 {
			usage()
			return fmt.Errorf("export-audit requires exactly one file argument")
		}
		entries, err := importSvc.ExportAudit(ctx)
		if err != nil {
			return err
		}
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := f.Write(csvexport.BOM); err != nil {
			return err
		}
		w := csvexport.NewWriter(f)
		if err := w.WriteHeader(); err != nil {
			return err
		}
		if err := w.WriteEntries(entries); err != nil {
			return err
		}
		w.Flush()
		return w.Error()

	case "create-user":
		fs := flag.NewFlagSet("create-user", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		role := fs.String("role", string(domain.DefaultRole), "account role")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *email == "" || *password == "" {
			return fmt.Errorf("create-user requires -email and -password")
		}
		user, err := userSvc.Create(ctx, service.CreateUserInput{
			Email:    *email,
			Password: *password,
			Role:     domain.UserRole(*role),
		})
		if err != nil {
			return err
		}
		log.Printf("created user %s (%s)", user.ID, user.Email)
		return nil

	case "search-employees":
		if len(args) != 2 {
			usage()
			return fmt.Errorf("search-employees requires exactly one term argument")
		}
		emps, err := employeeRepo.Search(ctx, args[1], 50)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(emps)

	case "checkin", "checkout":
		fs := flag.NewFlagSet(args[0], flag.ExitOnError)
		empID := fs.String("employee", "", "employee id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		id, err := uuid.Parse(*empID)
		if err != nil {
			return fmt.Errorf("%s requires a valid -employee id: %w", args[0], err)
		}
		if args[0] == "checkin" {
			return attendanceSvc.CheckIn(ctx, id, time.Now())
		}
		return attendanceSvc.CheckOut(ctx, id, time.Now())

	case "purge-trash":
		n, err := contractSvc.PurgeExpiredTrash(ctx)
		if err != nil {
			return err
		}
		log.Printf("purged %d contracts", n)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

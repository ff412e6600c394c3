package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/checkout"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/rentalapi"
	"github.com/m04kA/SMC-RentalService/internal/rental"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

type options struct {
	api       string
	token     string
	vehicleID int64
	mode      string
	start     string
	end       string
	from      string
	to        string
	pickup    string
	dropoff   string
	note      string
	tz        string
	timeout   time.Duration
	logLevel  string
}

func main() {
	opts := parseFlags()

	log, err := logger.New("", opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.api, "api", "http://localhost:8080", "rental service base URL")
	flag.StringVar(&opts.token, "token", os.Getenv("RENTAL_TOKEN"), "bearer token (default $RENTAL_TOKEN)")
	flag.Int64Var(&opts.vehicleID, "vehicle", 0, "vehicle id")
	flag.StringVar(&opts.mode, "mode", "daily", "rental mode: daily or hourly")
	flag.StringVar(&opts.start, "start", "", "start date, YYYY-MM-DD")
	flag.StringVar(&opts.end, "end", "", "end date, YYYY-MM-DD")
	flag.StringVar(&opts.from, "from", "", "start time for hourly rentals, HH:MM")
	flag.StringVar(&opts.to, "to", "", "end time for hourly rentals, HH:MM")
	flag.StringVar(&opts.pickup, "pickup", "", "pickup location")
	flag.StringVar(&opts.dropoff, "dropoff", "", "dropoff location")
	flag.StringVar(&opts.note, "note", "", "special requests")
	flag.StringVar(&opts.tz, "tz", "Asia/Kolkata", "timezone of the dates")
	flag.DurationVar(&opts.timeout, "timeout", 15*time.Second, "HTTP timeout")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flag.Parse()

	return opts
}

func run(ctx context.Context, opts options, log *logger.Logger) error {
	if opts.vehicleID <= 0 {
		return errors.New("-vehicle is required")
	}

	sel, err := selectionFromFlags(opts)
	if err != nil {
		return err
	}

	client := rentalapi.NewClient(opts.api, opts.token, opts.timeout, log)
	session := checkout.NewSession(client, newPromptCollector(os.Stdin, os.Stdout), log)
	defer session.Close()

	// 1. Автомобиль
	st, err := session.Load(ctx, opts.vehicleID)
	if err != nil {
		return fmt.Errorf("failed to load vehicle %d: %w", opts.vehicleID, err)
	}
	fmt.Printf("%s, %s\n", st.Vehicle.Title(), st.Vehicle.Location)

	// 2. Интервал, цена и доступность
	if _, err := session.Update(sel); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}

	var note *string
	if opts.note != "" {
		note = &opts.note
	}
	if _, err := session.SetLocations(opts.pickup, opts.dropoff, note); err != nil {
		return fmt.Errorf("invalid locations: %w", err)
	}

	session.Wait()
	st = session.State()
	printQuote(st)

	if !st.CanSubmit() {
		log.Warn("checkout: cannot submit, state %s", checkout.Describe(st))
		if st.Err != nil {
			return st.Err
		}
		return fmt.Errorf("booking cannot be submitted (%s)", checkout.Describe(st))
	}

	// 3. Заказ, оплата и подтверждение
	booking, err := session.Submit(ctx)
	if errors.Is(err, checkout.ErrPaymentCancelled) {
		fmt.Println("Payment cancelled, nothing was booked.")
		return nil
	}
	if err != nil {
		log.Warn("checkout: submit failed, state %s", checkout.Describe(session.State()))
		return fmt.Errorf("booking failed: %w", err)
	}

	fmt.Printf("\nBooking %s confirmed (id %d), %s\n",
		booking.BookingRef, booking.ID, formatAmount(booking.TotalAmount, booking.Currency))
	return nil
}

func selectionFromFlags(opts options) (rental.Selection, error) {
	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return rental.Selection{}, fmt.Errorf("invalid -tz: %w", err)
	}

	sel := rental.Selection{Mode: domain.RentalMode(opts.mode)}
	if !sel.Mode.IsValid() {
		return rental.Selection{}, fmt.Errorf("invalid -mode %q", opts.mode)
	}

	if sel.StartDate, err = parseDate(opts.start, loc); err != nil {
		return rental.Selection{}, fmt.Errorf("invalid -start: %w", err)
	}
	if sel.EndDate, err = parseDate(opts.end, loc); err != nil {
		return rental.Selection{}, fmt.Errorf("invalid -end: %w", err)
	}

	if sel.Mode == domain.ModeHourly {
		if sel.StartTime, err = parseClock(opts.from); err != nil {
			return rental.Selection{}, fmt.Errorf("invalid -from: %w", err)
		}
		if sel.EndTime, err = parseClock(opts.to); err != nil {
			return rental.Selection{}, fmt.Errorf("invalid -to: %w", err)
		}
	}

	return sel, nil
}

func parseDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseClock(value string) (types.TimeString, error) {
	if value == "" {
		return types.TimeString{}, nil
	}
	return types.NewTimeStringFromString(value)
}

func printQuote(st checkout.FormState) {
	if st.IntervalErr != nil {
		fmt.Printf("Selection: %v\n", st.IntervalErr)
		return
	}
	if st.Interval == nil {
		return
	}

	unit := "day(s)"
	if st.Interval.Mode == domain.ModeHourly {
		unit = "hour(s)"
	}
	fmt.Printf("%s -> %s, %d %s, %s\n",
		st.Interval.Start.Format("2006-01-02 15:04"), st.Interval.End.Format("2006-01-02 15:04"),
		st.Interval.Duration, unit, formatAmount(st.Amount, "INR"))

	if st.Verdict != nil {
		fmt.Println(st.Verdict.Message)
	}
}

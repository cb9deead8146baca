// Bessel solves the direct and inverse geodetic problems on the Krasovsky
// ellipsoid, one at a time, in CSV batches or over HTTP.
//
// Negative decimal angles look like flags to the parser. Use a hemisphere
// letter (33.5S) or put the arguments after "--".
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/tidwall/bessel"
	"github.com/tidwall/bessel/dms"
	"github.com/tidwall/bessel/internal/batch"
	"github.com/tidwall/bessel/internal/config"
	"github.com/tidwall/bessel/internal/metrics"
	"github.com/tidwall/bessel/internal/server"
	"gopkg.in/alecthomas/kingpin.v2"
)

// BesselCommand stores all values provided on the command line. These
// values are passed to the command functions listed below.
type BesselCommand struct {
	ConfigFile    string  // optional YAML settings file
	LogLevel      string  // zerolog level name, overrides settings
	MaxIterations int     // inverse iteration cap, 0 keeps settings
	Tolerance     float64 // inverse tolerance in arcseconds, 0 keeps settings
	TruncateBeta  bool    // drop the β' term of the inverse problem
	SignsFromQ    bool    // resolve the inverse Azi2 on the signs of p and q
	Decimal       bool    // print decimal degrees instead of DMS

	Args    []string // the four positional values of direct and inverse
	Problem string   // direct or inverse, for batch
	Format  string   // batch output, csv or jsonl
	Workers int      // batch worker count, 0 keeps settings
	InFile  *os.File // batch input
	Port    string   // serve port, empty keeps settings

	out      io.Writer
	errOut   io.Writer
	settings config.Settings
	logger   zerolog.Logger
	solver   *metrics.Solver
}

// setup runs before every command. Flags win over the environment, which
// wins over the settings file.
func (bc *BesselCommand) setup(*kingpin.ParseContext) error {
	settings, err := config.Load(bc.ConfigFile)
	if err != nil {
		return err
	}
	if bc.LogLevel != "" {
		settings.LogLevel = bc.LogLevel
	}
	if bc.MaxIterations > 0 {
		settings.MaxIterations = bc.MaxIterations
	}
	if bc.Tolerance > 0 {
		settings.Tolerance = bc.Tolerance
	}
	if bc.TruncateBeta {
		settings.TruncateBeta = true
	}
	if bc.SignsFromQ {
		settings.AzimuthSignsFromQ = true
	}
	if bc.Workers > 0 {
		settings.BatchWorkers = bc.Workers
	}
	if bc.Port != "" {
		settings.Port = bc.Port
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	bc.settings = settings
	bc.logger = zerolog.New(bc.errOut).Level(level).With().Timestamp().Str("app", "bessel").Logger()
	bc.solver = metrics.NewSolver(settings.Ellipsoid())
	bc.logger.Debug().Interface("settings", settings).Msg("Settings loaded.")
	return nil
}

// angles parses the leading positional values. Direct and inverse both take
// exactly four.
func (bc *BesselCommand) angles(kinds ...dms.Kind) ([]float64, error) {
	if len(bc.Args) != 4 {
		return nil, fmt.Errorf("expected 4 values, got %d", len(bc.Args))
	}
	vals := make([]float64, len(kinds))
	for i, k := range kinds {
		v, err := dms.ParseDecimal(bc.Args[i], k)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func (bc *BesselCommand) format(deg float64) string {
	if bc.Decimal {
		return fmt.Sprintf("%.10f", deg)
	}
	return dms.FromDecimal(deg).String()
}

// Direct prints the end point and reverse azimuth.
func (bc *BesselCommand) Direct(*kingpin.ParseContext) error {
	v, err := bc.angles(dms.Latitude, dms.Longitude, dms.Azimuth)
	if err != nil {
		return err
	}
	s12, err := strconv.ParseFloat(bc.Args[3], 64)
	if err != nil {
		return fmt.Errorf("argument 4: %q is not a distance in meters", bc.Args[3])
	}
	r, err := bc.solver.Direct(v[0], v[1], v[2], s12)
	if err != nil {
		return err
	}
	fmt.Fprintf(bc.out, "lat2 %s\nlon2 %s\nazi2 %s\n", bc.format(r.Lat2), bc.format(r.Lon2), bc.format(r.Azi2))
	return nil
}

// Inverse prints the azimuths and the distance between two points.
func (bc *BesselCommand) Inverse(*kingpin.ParseContext) error {
	v, err := bc.angles(dms.Latitude, dms.Longitude, dms.Latitude, dms.Longitude)
	if err != nil {
		return err
	}
	r, err := bc.solver.Inverse(v[0], v[1], v[2], v[3])
	var de *bessel.DegenerateInputError
	if errors.As(err, &de) && de.Reason == bessel.Coincident {
		fmt.Fprintf(bc.out, "azi1 undefined\nazi2 undefined\ns12 %s\n", dms.FormatMeters(0))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(bc.out, "azi1 %s\nazi2 %s\ns12 %s\n", bc.format(r.Azi1), bc.format(r.Azi2), dms.FormatMeters(r.S12))
	bc.logger.Debug().Int("iterations", r.Iterations).Msg("Inverse converged.")
	return nil
}

// Batch solves every row of the input file and writes them to the output.
func (bc *BesselCommand) Batch(*kingpin.ParseContext) error {
	defer bc.InFile.Close()
	p, err := batch.ParseProblem(bc.Problem)
	if err != nil {
		return err
	}
	f, err := batch.ParseFormat(bc.Format)
	if err != nil {
		return err
	}
	sum, err := batch.Run(context.Background(), bc.solver, p, f, bc.InFile, bc.out, bc.settings.BatchWorkers, bc.logger)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		bc.logger.Warn().Int("failed", sum.Failed).Int("rows", sum.Rows).Msg("Some rows failed.")
	}
	return nil
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func (bc *BesselCommand) Serve(*kingpin.ParseContext) error {
	app := server.New(bc.solver, &bc.logger)
	bc.logger.Info().Str("port", bc.settings.Port).Msg("Starting web server.")

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(":" + bc.settings.Port)
	}()

	wait := make(chan os.Signal, 1)
	signal.Notify(wait, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("web server: %w", err)
	case <-wait:
	}
	bc.logger.Info().Msg("Shutting down web server.")
	return app.Shutdown()
}

func configureApp(app *kingpin.Application, bc *BesselCommand) {
	app.PreAction(bc.setup)

	// General flags
	app.Flag("config", "YAML settings file.").
		Default("settings.yaml").
		StringVar(&bc.ConfigFile)
	app.Flag("log-level", "Log level [debug, info, warn, error].").
		Envar("BESSEL_LOG_LEVEL").
		StringVar(&bc.LogLevel)
	app.Flag("max-iterations", "Iteration cap of the inverse problem.").
		Envar("BESSEL_MAX_ITERATIONS").
		IntVar(&bc.MaxIterations)
	app.Flag("tolerance", "Convergence tolerance of the inverse problem, in arcseconds.").
		Envar("BESSEL_TOLERANCE").
		Float64Var(&bc.Tolerance)
	app.Flag("truncate-beta", "Drop the β' term of the inverse longitude correction.").
		Envar("BESSEL_TRUNCATE_BETA").
		BoolVar(&bc.TruncateBeta)
	app.Flag("azimuth-signs-from-q", "Resolve the inverse reverse azimuth on the signs of p and q.").
		Envar("BESSEL_AZIMUTH_SIGNS_FROM_Q").
		BoolVar(&bc.SignsFromQ)

	directCmd := app.Command("direct", "Find the end point from a start, an azimuth and a distance.").Action(bc.Direct)
	directCmd.Flag("decimal", "Print decimal degrees.").BoolVar(&bc.Decimal)
	directCmd.Arg("values", "LAT1 LON1 AZI1 S12, angles in decimal degrees or D°M'S''.").
		Required().
		StringsVar(&bc.Args)

	inverseCmd := app.Command("inverse", "Find the azimuths and distance between two points.").Action(bc.Inverse)
	inverseCmd.Flag("decimal", "Print decimal degrees.").BoolVar(&bc.Decimal)
	inverseCmd.Arg("values", "LAT1 LON1 LAT2 LON2, in decimal degrees or D°M'S''.").
		Required().
		StringsVar(&bc.Args)

	batchCmd := app.Command("batch", "Solve every row of a CSV file.").Action(bc.Batch)
	batchCmd.Flag("problem", "Problem of every row [direct, inverse].").
		Required().
		EnumVar(&bc.Problem, "direct", "inverse")
	batchCmd.Flag("format", "Output format [csv, jsonl].").
		Default("csv").
		EnumVar(&bc.Format, "csv", "jsonl")
	batchCmd.Flag("workers", "Number of rows solved at once.").
		Short('w').
		IntVar(&bc.Workers)
	batchCmd.Arg("file", "CSV file to solve.").
		Required().
		OpenFileVar(&bc.InFile, os.O_RDONLY, 0666)

	serveCmd := app.Command("serve", "Serve the solvers over HTTP.").Action(bc.Serve)
	serveCmd.Flag("port", "Port to listen on.").
		StringVar(&bc.Port)
}

func newApp(out, errOut io.Writer) *kingpin.Application {
	bc := &BesselCommand{out: out, errOut: errOut}
	app := kingpin.New("bessel", "Bessel's method for the direct and inverse geodetic problems.")
	app.Version("0.1.0")
	app.HelpFlag.Short('h')
	configureApp(app, bc)
	return app
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Failed loading .env:", err)
	}
	app := newApp(os.Stdout, os.Stderr)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

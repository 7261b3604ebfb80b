// Command zeroorm runs a single command against a database and prints the
// result.
//
//	zeroorm -driver sqlite -dsn shop.db -query "SELECT * FROM Products WHERE Quantity = @q" -arg q=5
//	zeroorm -config db.json -mode nonquery -query "DELETE FROM Products WHERE Name = @Name" -arg Name=Widget
//	zeroorm -driver sqlite -dsn shop.db -file queries/ -query products-by-quantity -arg Quantity=5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/oarkflow/zeroorm"
	"github.com/oarkflow/zeroorm/connection"
	"github.com/oarkflow/zeroorm/hooks"
)

type argList zeroorm.Params

func (a *argList) String() string {
	return strings.Join(zeroorm.Params(*a).Names(), ",")
}

func (a *argList) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("argument %q is not name=value", s)
	}
	ps := zeroorm.Params(*a)
	ps.Add(name, value)
	*a = argList(ps)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "zeroorm:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("zeroorm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		driver   = fs.String("driver", "", "registered driver name (pgx, mysql, sqlserver, sqlite)")
		dsn      = fs.String("dsn", "", "connection string")
		config   = fs.String("config", "", "JSON connection config; overrides -driver and -dsn")
		query    = fs.String("query", "", "command text, or a command name from -file")
		file     = fs.String("file", "", ".sql file or directory of named commands")
		mode     = fs.String("mode", "cursor", "cursor, scalar or nonquery")
		slow     = fs.Duration("slow", 0, "log only commands slower than this")
		verbose  = fs.Bool("v", false, "log commands and mapping diagnostics")
		bindings argList
	)
	fs.Var(&bindings, "arg", "binding as name=value; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	mapper := zeroorm.NewMapper(zeroorm.WithLogger(logger))

	ex, conn, err := executor(*config, *driver, *dsn, mapper)
	if err != nil {
		return err
	}
	if *verbose || *slow > 0 {
		ex.Use(hooks.NewLogger(logger, *slow > 0, *slow))
	}

	text := *query
	if *file != "" {
		loader, err := loadCommands(*file)
		if err != nil {
			return err
		}
		text = loader.Text(text)
	}

	params := zeroorm.Params(bindings)
	switch *mode {
	case "scalar":
		v, err := ex.ScalarContext(ctx, conn, text, params)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, format(v))
	case "nonquery":
		n, err := ex.NonQueryContext(ctx, conn, text, params)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d row(s) affected\n", n)
	case "cursor":
		rows, err := ex.CursorContext(ctx, conn, text, params)
		if err != nil {
			return err
		}
		defer rows.Close()
		return render(stdout, rows)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
	return nil
}

func executor(configPath, driver, dsn string, mapper *zeroorm.Mapper) (*zeroorm.Executor, string, error) {
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, "", err
		}
		cfg, err := zeroorm.DecodeConfig(data)
		if err != nil {
			return nil, "", err
		}
		return connection.Executor(cfg, mapper)
	}
	if driver == "" {
		return nil, "", errors.New("either -config or -driver is required")
	}
	return zeroorm.NewExecutor(driver, mapper), dsn, nil
}

func loadCommands(path string) (*zeroorm.FileLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return zeroorm.LoadFromDir(path)
	}
	return zeroorm.LoadFromFile(path)
}

func render(w io.Writer, rows *zeroorm.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for rows.Next() {
		values, err := rows.MapScan()
		if err != nil {
			return err
		}
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = format(values[c])
		}
		t.AppendRow(row)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d row(s)", t.Length())})
	t.Render()
	return nil
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

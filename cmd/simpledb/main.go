// Command simpledb is the CLI boundary collaborator: it opens a database
// through the embedded driver, or dials a running server through the
// remote driver when -host is given, and drives either an interactive
// console or a batch of -sql statements. It carries no engine logic of
// its own.
package main

import (
	"fmt"
	"net"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"simpledb/driver/embedded"
	"simpledb/driver/remote"
	"simpledb/internal/config"
	"simpledb/internal/demo"
)

var (
	rootCmd = &cobra.Command{
		Use:   "simpledb",
		Short: "A small relational database engine",
		RunE:  rootRun,
	}

	dbPath     = "simpledb.db"
	host       = ""
	configFile = ""
	seed       = false
	sqlArgs    []string
	logLevel   = "info"
)

func init() {
	fs := rootCmd.Flags()
	fs.StringVar(&dbPath, "db", dbPath, "`directory` of the database to open")
	fs.StringVar(&host, "host", host, "`host:port` of a remote simpledb server; embedded when empty")
	fs.StringVar(&configFile, "config", configFile, "`file` to load engine tunables from (HCL)")
	fs.BoolVar(&seed, "seed", seed, "populate a fresh database with the demo schema")
	fs.StringArrayVar(&sqlArgs, "sql", nil, "`statement` to run non-interactively; repeatable")
	fs.StringVar(&logLevel, "log-level", logLevel, "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a database over the remote driver's RPC wire",
	RunE:  serveRun,
}

var serveAddr = "localhost:9999"

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", serveAddr, "`address` to listen on")
}

func serveRun(cmd *cobra.Command, args []string) error {
	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return err
	}
	log.WithField("addr", serveAddr).Info("simpledb serve")
	return remote.Serve(ln)
}

func openConnection() (connection, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if host != "" {
		drv, err := remote.Dial(host)
		if err != nil {
			return nil, err
		}
		conn, err := drv.Connect(dbPath, cfg)
		if err != nil {
			return nil, err
		}
		return remoteConn{conn}, nil
	}

	conn, err := embedded.NewDriver().Connect(dbPath, cfg)
	if err != nil {
		return nil, err
	}
	return embeddedConn{conn}, nil
}

func rootRun(cmd *cobra.Command, args []string) error {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(ll)

	conn, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if seed {
		ec, ok := conn.(embeddedConn)
		if !ok {
			return fmt.Errorf("simpledb: -seed requires the embedded driver")
		}
		if err := demo.CreateStudentDB(ec.c); err != nil {
			return err
		}
	}

	if len(sqlArgs) > 0 {
		for _, sql := range sqlArgs {
			if err := runStatement(conn, sql, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		return nil
	}

	Interact(conn)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

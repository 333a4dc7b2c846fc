package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/zengo-x/gotham-sub000/pkg/auth"
	"github.com/zengo-x/gotham-sub000/pkg/gothamserver"
	"github.com/zengo-x/gotham-sub000/pkg/logging"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to server configuration JSON file (optional; defaults apply if omitted)")
		addr       = flag.String("addr", "", "listen address, overrides the config file's listen_addr")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := LoadServerConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	verifier, err := buildVerifier(cfg.Auth)
	if err != nil {
		log.Fatalf("build auth verifier: %v", err)
	}

	store := memstore.New()
	logger := logging.New(nil)
	router := gothamserver.NewRouter(store, verifier, logger)
	srv := gothamserver.NewHTTPServer(cfg.ListenAddr, router)

	l, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Printf("gotham-server listening on %s (auth mode=%s)", cfg.ListenAddr, cfg.Auth.Mode)
	log.Fatal(srv.Serve(l))
}

func buildVerifier(cfg AuthConfig) (auth.Verifier, error) {
	switch cfg.Mode {
	case "bearer":
		return auth.NewBearerVerifier(cfg.Tokens), nil
	case "passthrough":
		return &auth.PassthroughVerifier{Header: cfg.PassthroughHeader}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/mdlayher/vsock"

	"github.com/cloudx-io/bondclear/auctionapi"
	"github.com/cloudx-io/bondclear/proof"
)

// EngineServer accepts clearing requests over a stream listener. One request
// per connection: the client writes a JSON document and half-closes; the
// server replies with a JSON response and closes.
type EngineServer struct {
	signer *proof.Signer
}

func NewEngineServer() *EngineServer {
	return &EngineServer{}
}

func (s *EngineServer) Start() error {
	signer, err := proof.NewSigner()
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}
	s.signer = signer
	log.Printf("Signer initialized (ephemeral ES384 key)")

	listener, err := newListener()
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Printf("ERROR: Failed to close listener: %v", err)
		}
	}()

	log.Printf("INFO: Clearing engine listening on %s", listener.Addr())

	maxWorkers, err := getRequiredEnvInt("BONDCLEAR_MAX_WORKERS")
	if err != nil {
		return fmt.Errorf("failed to get max workers config: %w", err)
	}
	semaphore := make(chan struct{}, maxWorkers)

	log.Printf("INFO: Worker pool initialized with %d max concurrent workers", maxWorkers)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("ERROR: Failed to accept connection: %v", err)
			continue
		}

		// Acquire worker slot - immediate rejection if pool full
		select {
		case semaphore <- struct{}{}:
			go func(c net.Conn) {
				defer func() { <-semaphore }() // Release worker slot
				s.handleConnection(c)
			}(conn)
		default:
			log.Printf("INFO: No workers available, rejecting connection (pool full)")
			if err := conn.Close(); err != nil {
				log.Printf("ERROR: Failed to close rejected connection: %v", err)
			}
		}
	}
}

// newListener builds the configured listener: "vsock" when the engine runs
// as a VM guest, "tcp" everywhere else.
func newListener() (net.Listener, error) {
	mode, err := getRequiredEnv("BONDCLEAR_LISTENER")
	if err != nil {
		return nil, err
	}

	switch mode {
	case "tcp":
		addr, err := getRequiredEnv("BONDCLEAR_ADDR")
		if err != nil {
			return nil, err
		}
		return net.Listen("tcp", addr)
	case "vsock":
		port, err := getRequiredEnvInt("BONDCLEAR_VSOCK_PORT")
		if err != nil {
			return nil, err
		}
		return vsock.Listen(uint32(port), nil)
	default:
		return nil, fmt.Errorf("unknown listener mode %q (want tcp or vsock)", mode)
	}
}

func (s *EngineServer) handleConnection(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Panic recovered in handleConnection: %v", r)
		}
		if err := conn.Close(); err != nil {
			log.Printf("ERROR: Failed to close connection: %v", err)
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var buf bytes.Buffer
	_, err := io.Copy(&buf, conn)
	if err != nil {
		log.Printf("ERROR: Failed to read request: %v", err)
		return
	}

	var baseReq struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(buf.Bytes(), &baseReq); err != nil {
		log.Printf("ERROR: Failed to decode base request: %v", err)
		return
	}

	log.Printf("INFO: Received request type: %s", baseReq.Type)

	var response any

	switch baseReq.Type {
	case "ping":
		response = map[string]any{
			"type":      "pong",
			"message":   "clearing engine is healthy",
			"timestamp": time.Now().Unix(),
		}
		log.Printf("INFO: Responding to ping with pong")

	case "clearing_request":
		var clearingReq auctionapi.ClearingRequest
		if err := json.Unmarshal(buf.Bytes(), &clearingReq); err != nil {
			log.Printf("ERROR: Failed to decode clearing request: %v", err)
			response = map[string]any{
				"type":    "error",
				"message": fmt.Sprintf("Failed to decode clearing request: %v", err),
			}
		} else {
			response = ProcessClearing(clearingReq, s.signer)
		}

	default:
		response = map[string]any{
			"type":    "error",
			"message": fmt.Sprintf("Unknown request type: %s", baseReq.Type),
		}
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(response); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	} else {
		log.Printf("INFO: Successfully sent response for %s", baseReq.Type)
	}
}

// Helper functions for required environment variable parsing
func getRequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getRequiredEnvInt(key string) (int, error) {
	value, err := getRequiredEnv(key)
	if err != nil {
		return 0, err
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %s (must be a valid integer)", key, value)
	}

	log.Printf("INFO: Using %s=%d from environment", key, intValue)
	return intValue, nil
}

func main() {
	server := NewEngineServer()
	log.Fatal(server.Start())
}

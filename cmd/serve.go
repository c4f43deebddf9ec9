package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/midimash/mash"
	"github.com/jsphweid/midimash/midi"
	"github.com/jsphweid/midimash/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxUploadBytes = 32 << 20

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the mash API over HTTP",
	Long:  `Serves POST /mash, which takes two MIDI files and a weight and returns the mashed file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		src := mash.NewLockedSource(mash.NewSource(cfg.Seed))
		return serve(cmd.Context(), addr, NewRouter(src, log), log)
	},
}

type mashServer struct {
	rng mash.Source
	log *slog.Logger
}

// NewRouter wires the HTTP API. src is shared by concurrent requests and
// must be safe for that.
func NewRouter(src mash.Source, log *slog.Logger) http.Handler {
	s := &mashServer{rng: src, log: log}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/mash", s.handleMash).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

func readUpload(r *http.Request, field string) (*model.Sequence, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file %q", field)
	}
	defer f.Close()
	seq, err := midi.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("file %q: %v", field, err)
	}
	return seq, nil
}

func (s *mashServer) handleMash(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Could not read multipart form: "+err.Error())
		return
	}

	weight, err := strconv.Atoi(r.FormValue("weight"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "weight must be an integer")
		return
	}
	first, err := readUpload(r, "first")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	second, err := readUpload(r, "second")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := mash.Swap(first, second, weight, s.rng)
	if errors.Is(err, mash.ErrInvalidWeight) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("mash failed", "err", err)
		writeError(w, http.StatusInternalServerError, "mash failed")
		return
	}

	var buf bytes.Buffer
	if err := midi.Encode(&buf, first); err != nil {
		s.log.Error("could not encode mashed sequence", "err", err)
		writeError(w, http.StatusInternalServerError, "could not encode result")
		return
	}

	s.log.Info("mashed", "weight", weight, "eligible", res.Eligible, "swapped", res.Swapped)
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="mash-%v.mid"`, uuid.New()))
	w.Header().Set("X-Mash-Eligible", strconv.Itoa(res.Eligible))
	w.Header().Set("X-Mash-Swapped", strconv.Itoa(res.Swapped))
	w.Write(buf.Bytes())
}

func serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

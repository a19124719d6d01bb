package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-compare/internal/cache"
	"github.com/iwvelando/mortgage-compare/internal/calculator"
	"github.com/iwvelando/mortgage-compare/internal/config"
	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"github.com/iwvelando/mortgage-compare/pkg/output"
	"github.com/iwvelando/mortgage-compare/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const cacheHeader = "X-Cache"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the mortgage API. A nil
// store disables response caching.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, store cache.Cache) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         store,
		metrics:       newMetrics(),
	}

	mux := http.NewServeMux()

	// Amortization schedule of a single loan
	mux.Handle("/api/schedule", h.instrument("/api/schedule", h.handleSchedule))

	// Single prepayment under both policies
	mux.Handle("/api/prepayment", h.instrument("/api/prepayment", h.handlePrepayment))

	// Offer ranking
	mux.Handle("/api/offers", h.instrument("/api/offers", h.handleOffers))

	// Two loans side by side
	mux.Handle("/api/compare", h.instrument("/api/compare", h.handleCompare))

	// Full configuration report (file upload)
	mux.Handle("/api/report", h.instrument("/api/report", h.handleReport))

	// Config serialization endpoint for downloads
	mux.Handle("/api/export", h.instrument("/api/export", h.handleConfigExport))

	mux.Handle("/api/version", h.instrument("/api/version", h.handleVersion))
	mux.Handle("/healthz", h.instrument("/healthz", h.handleHealth))
	mux.Handle("/metrics", h.metrics.handler())

	return mux
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}
	monthly := r.URL.Query().Get("monthly") == "true"

	h.serveCached(w, r, op, body, func() (interface{}, error) {
		var loan config.Loan
		if err := decodeJSON(body, &loan); err != nil {
			return nil, err
		}
		if err := loan.Validate(); err != nil {
			return nil, err
		}
		result, err := calculator.CalculateLoan(h.logger, loan)
		if err != nil {
			return nil, err
		}
		return buildLoan(result, monthly), nil
	})
}

func (h *handler) handlePrepayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePrepayment"
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	h.serveCached(w, r, op, body, func() (interface{}, error) {
		var request prepaymentRequest
		if err := decodeJSON(body, &request); err != nil {
			return nil, err
		}
		if err := request.Loan.Validate(); err != nil {
			return nil, err
		}
		terms := request.Loan.Terms()
		if terms.IsMixed() {
			return nil, &loans.InvalidTermError{
				Periods: terms.TermMonths,
				Reason:  "prepayment comparison requires a fixed-rate loan",
			}
		}

		comparison, err := loans.NewPrepaymentSimulator(h.logger).Compare(terms.Principal,
			loans.PeriodicRate(terms.AnnualRate), terms.TermMonths, request.Month, request.Amount)
		if err != nil {
			return nil, err
		}
		return buildComparison(request.Month, request.Amount, comparison), nil
	})
}

func (h *handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOffers"
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	h.serveCached(w, r, op, body, func() (interface{}, error) {
		var request offersRequest
		if err := decodeJSON(body, &request); err != nil {
			return nil, err
		}
		if len(request.Offers) == 0 {
			return nil, fmt.Errorf("no offers given")
		}

		offers := make([]loans.Offer, 0, len(request.Offers))
		for _, offer := range request.Offers {
			if err := offer.Validate(); err != nil {
				return nil, fmt.Errorf("offer %s: %w", offer.Name, err)
			}
			converted, err := offer.ToOffer()
			if err != nil {
				return nil, fmt.Errorf("offer %s: %w", offer.Name, err)
			}
			offers = append(offers, converted)
		}

		ranked, err := loans.NewOfferCostEvaluator(h.logger).EvaluateOffers(offers)
		if err != nil {
			return nil, err
		}
		return buildOffers(ranked), nil
	})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	h.serveCached(w, r, op, body, func() (interface{}, error) {
		var request compareRequest
		if err := decodeJSON(body, &request); err != nil {
			return nil, err
		}
		if err := request.First.Validate(); err != nil {
			return nil, fmt.Errorf("first loan: %w", err)
		}
		if err := request.Second.Validate(); err != nil {
			return nil, fmt.Errorf("second loan: %w", err)
		}

		comparison, err := loans.NewScheduleBuilder(h.logger).CompareTerms(request.First.Terms(), request.Second.Terms())
		if err != nil {
			return nil, err
		}
		return compareResponse{
			First:                    buildSchedule(request.First.Name, "", comparison.First, false),
			Second:                   buildSchedule(request.Second.Name, "", comparison.Second, false),
			FirstCumulativeInterest:  roundAll(comparison.FirstCumulativeInterest),
			SecondCumulativeInterest: roundAll(comparison.SecondCumulativeInterest),
			InterestDifference:       mathutil.Round(comparison.InterestDifference),
		}, nil
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	format, err := validation.ResolveOutputFormat(r.URL.Query().Get("format"), constants.OutputFormatJSON,
		validation.ReportFormats)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := calculator.Calculate(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to compute report: %v", err), op)
		return
	}

	csv := output.CsvString(results)
	elapsed := time.Since(start)
	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("request_id", requestID(r.Context())),
		zap.Int("scenarios", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	if format == constants.OutputFormatCSV {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="mortgage-report.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, csv); err != nil {
			h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
		}
		return
	}

	h.writeJSON(w, http.StatusOK, reportResponse{
		Scenarios: buildScenarios(results),
		Warnings:  warnings,
		CSV:       csv,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	var cfg config.Configuration
	if err := decodeJSON(body, &cfg); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"configYaml": string(yamlBytes),
		"warnings":   cfg.ValidateConfiguration(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	status := map[string]string{"status": "ok"}
	if pinger, ok := h.cache.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			h.logger.Warn("cache unreachable",
				zap.String("op", "server.handleHealth"),
				zap.Error(err),
			)
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	h.writeJSON(w, http.StatusOK, status)
}

// readBody accepts POST requests only and reads at most maxUploadSize bytes.
func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}
	return body, true
}

// serveCached answers from the cache when the same request was computed
// before, otherwise runs compute and stores a successful response.
func (h *handler) serveCached(w http.ResponseWriter, r *http.Request, op string, body []byte,
	compute func() (interface{}, error)) {
	var key string
	if h.cache != nil {
		key = cache.Key(r.URL.Path+"?"+r.URL.RawQuery, body)
		if cached, ok := h.cache.Get(r.Context(), key); ok {
			h.metrics.cacheLookups.WithLabelValues("hit").Inc()
			h.logger.Debug("serving cached response",
				zap.String("op", op),
				zap.String("request_id", requestID(r.Context())),
				zap.String("key", key),
			)
			w.Header().Set(cacheHeader, "HIT")
			h.writeRaw(w, http.StatusOK, cached)
			return
		}
		h.metrics.cacheLookups.WithLabelValues("miss").Inc()
		w.Header().Set(cacheHeader, "MISS")
	}

	response, err := compute()
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, payload); err != nil {
			h.logger.Warn("failed to cache response",
				zap.String("op", op),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	h.writeRaw(w, http.StatusOK, payload)
}

// statusFor maps computation errors to 422 and everything else to 400.
func statusFor(err error) int {
	if errors.Is(err, loans.ErrInvalidTerm) || errors.Is(err, loans.ErrInvalidBalance) ||
		errors.Is(err, loans.ErrNonConverging) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func decodeJSON(body []byte, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

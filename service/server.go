package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stablecore/crypto"
	"stablecore/native/stable"
	"stablecore/observability/metrics"
)

// timeNow is swapped out in tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// Server exposes the stablecoin engine over HTTP. All mutating endpoints are
// POST with JSON bodies; amounts travel as decimal strings.
type Server struct {
	engine  *stable.Engine
	feed    *stable.Feed
	logger  *slog.Logger
	metrics *metrics.StableMetrics
}

// NewServer wires the HTTP surface to the engine and the oracle feed the
// daemon publishes into.
func NewServer(engine *stable.Engine, feed *stable.Feed, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:  engine,
		feed:    feed,
		logger:  logger,
		metrics: metrics.Stable(),
	}
}

// Router assembles the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.With(observe(s.metrics, "init")).Post("/init", s.handleInit)
		v1.With(observe(s.metrics, "global")).Get("/global", s.handleGlobal)

		v1.Route("/collateral", func(cr chi.Router) {
			cr.With(observe(s.metrics, "collateral_configure")).Post("/", s.handleConfigureCollateral)
			cr.With(observe(s.metrics, "collateral_get")).Get("/{symbol}", s.handleGetCollateral)
		})

		v1.Route("/positions", func(pr chi.Router) {
			pr.With(observe(s.metrics, "deposit")).Post("/deposit", s.handleDeposit)
			pr.With(observe(s.metrics, "withdraw")).Post("/withdraw", s.handleWithdraw)
			pr.With(observe(s.metrics, "mint")).Post("/mint", s.handleMint)
			pr.With(observe(s.metrics, "burn")).Post("/burn", s.handleBurn)
			pr.With(observe(s.metrics, "position_get")).Get("/{owner}/{collateral}", s.handleGetPosition)
		})

		v1.With(observe(s.metrics, "liquidate")).Post("/liquidations", s.handleLiquidate)

		v1.Route("/psm", func(pr chi.Router) {
			pr.With(observe(s.metrics, "psm_configure")).Post("/", s.handleConfigurePsm)
			pr.With(observe(s.metrics, "psm_swap_in")).Post("/swap-in", s.handleSwapToStable)
			pr.With(observe(s.metrics, "psm_swap_out")).Post("/swap-out", s.handleSwapFromStable)
			pr.With(observe(s.metrics, "psm_get")).Get("/{symbol}", s.handleGetPsm)
		})

		v1.Route("/admin", func(ar chi.Router) {
			ar.With(observe(s.metrics, "pause")).Post("/pause", s.handleSetPaused)
			ar.With(observe(s.metrics, "freeze")).Post("/freeze", s.handleSetFrozen)
			ar.With(observe(s.metrics, "oracle_publish")).Post("/oracle", s.handlePublish)
		})
	})

	return r
}

func decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func parseAddress(field, value string) (crypto.Address, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return crypto.Address{}, errors.New("invalid " + field + " address")
	}
	return addr, nil
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) observeOracle(err error) {
	switch {
	case errors.Is(err, stable.ErrOracleUnavailable):
		s.metrics.ObserveOracleFailure("unavailable")
	case errors.Is(err, stable.ErrOracleStale):
		s.metrics.ObserveOracleFailure("stale")
	case errors.Is(err, stable.ErrOracleInvalid):
		s.metrics.ObserveOracleFailure("invalid")
	}
}

func (s *Server) finish(w http.ResponseWriter, operation string, err error, payload any) {
	s.metrics.ObserveOperation(operation, err)
	if err != nil {
		s.observeOracle(err)
		s.logger.Warn("operation failed", "operation", operation, "error", err)
		writeError(w, err)
		return
	}
	if payload == nil {
		payload = map[string]string{"status": "ok"}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	admin, err := parseAddress("admin", req.Admin)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.finish(w, "init", s.engine.Initialize(admin, req.StableSymbol), nil)
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	gs, err := s.engine.GetGlobalState()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, globalResponse{
		Admin:        gs.Admin.String(),
		StableSymbol: gs.StableSymbol,
		Paused:       gs.Paused,
	})
}

func (s *Server) handleConfigureCollateral(w http.ResponseWriter, r *http.Request) {
	var req collateralRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	err = s.engine.ConfigureCollateral(caller, stable.CollateralConfig{
		Symbol:             req.Symbol,
		OracleRef:          req.OracleRef,
		Decimals:           req.Decimals,
		MCR:                req.MCR,
		LTR:                req.LTR,
		LiquidationPenalty: req.LiquidationPenalty,
	})
	s.finish(w, "collateral_configure", err, nil)
}

func (s *Server) handleGetCollateral(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.engine.GetCollateralConfig(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type positionOp func(caller crypto.Address, collateral string, amount uint64) error

func (s *Server) handlePositionOp(w http.ResponseWriter, r *http.Request, operation string, op positionOp) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	value, err := req.Amount.parse()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.finish(w, operation, op(caller, req.Collateral, value), nil)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, "deposit", s.engine.Deposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, "withdraw", s.engine.Withdraw)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, "mint", s.engine.Mint)
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, "burn", s.engine.Burn)
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	owner, err := parseAddress("owner", chi.URLParam(r, "owner"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	pos, err := s.engine.GetPosition(owner, chi.URLParam(r, "collateral"))
	if err != nil {
		writeError(w, err)
		return
	}
	if pos == nil {
		writeError(w, stable.ErrPositionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newPositionResponse(pos))
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	var req liquidationRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	liquidator, err := parseAddress("liquidator", req.Liquidator)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	value, err := req.Amount.parse()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	repaid, seized, err := s.engine.Liquidate(liquidator, owner, req.Collateral, value)
	if err == nil {
		exhausted := false
		if pos, perr := s.engine.GetPosition(owner, req.Collateral); perr == nil && pos != nil {
			exhausted = pos.CollateralAmount == 0
		}
		s.metrics.ObserveLiquidation(exhausted)
	}
	s.finish(w, "liquidate", err, liquidationResponse{
		Repaid: formatAmount(repaid),
		Seized: formatAmount(seized),
	})
}

func (s *Server) handleConfigurePsm(w http.ResponseWriter, r *http.Request) {
	var req psmConfigRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	vault, err := parseAddress("vault", req.Vault)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.finish(w, "psm_configure", s.engine.ConfigurePSM(caller, req.ReferenceSymbol, vault, req.FeeBasisPoints), nil)
}

type swapOp func(caller crypto.Address, referenceSymbol string, amount uint64) error

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request, operation, direction string, op swapOp) {
	var req swapRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	value, err := req.Amount.parse()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	err = op(caller, req.ReferenceSymbol, value)
	if err == nil {
		s.metrics.ObservePsmSwap(direction, value)
	}
	s.finish(w, operation, err, nil)
}

func (s *Server) handleSwapToStable(w http.ResponseWriter, r *http.Request) {
	s.handleSwap(w, r, "psm_swap_in", "to_stable", s.engine.SwapToStable)
}

func (s *Server) handleSwapFromStable(w http.ResponseWriter, r *http.Request) {
	s.handleSwap(w, r, "psm_swap_out", "from_stable", s.engine.SwapFromStable)
}

func (s *Server) handleGetPsm(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.engine.GetPsmConfig(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPsmResponse(cfg))
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.finish(w, "pause", s.engine.SetPaused(caller, req.Paused), nil)
}

func (s *Server) handleSetFrozen(w http.ResponseWriter, r *http.Request) {
	var req freezeRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.finish(w, "freeze", s.engine.SetFrozen(caller, owner, req.Collateral, req.Frozen), nil)
}

// handlePublish records an oracle observation. The daemon is the trusted
// publisher; production deployments front this with operator auth.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decode(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if s.feed == nil {
		writeError(w, stable.ErrOracleUnavailable)
		return
	}
	asOf, err := req.asOf(timeNow())
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s.feed.Publish(req.OracleRef, req.PriceUSD, asOf)
	s.finish(w, "oracle_publish", nil, nil)
}

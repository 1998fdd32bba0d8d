package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fairdex/auction-monitor/internal/auctions"
	"github.com/fairdex/auction-monitor/internal/monitor"
	"github.com/fairdex/auction-monitor/pkg/types"
)

// AuctionsHandler serves the latest auction snapshots over HTTP.
type AuctionsHandler struct {
	monitor *monitor.Service
	logger  *zap.Logger
}

// NewAuctionsHandler creates a new auctions handler.
func NewAuctionsHandler(mon *monitor.Service, logger *zap.Logger) *AuctionsHandler {
	return &AuctionsHandler{
		monitor: mon,
		logger:  logger,
	}
}

// AuctionResponse represents one auction snapshot in API responses.
type AuctionResponse struct {
	Pair             string     `json:"pair"`
	AuctionIndex     string     `json:"auction_index"`
	State            string     `json:"state"`
	SellToken        string     `json:"sell_token"`
	BuyToken         string     `json:"buy_token"`
	SellVolume       string     `json:"sell_volume"`
	BuyVolume        string     `json:"buy_volume"`
	ExtraTokens      string     `json:"extra_tokens"`
	SellVolumeEth    string     `json:"sell_volume_eth"`
	CurrentPrice     string     `json:"current_price,omitempty"`
	ClosingPrice     string     `json:"closing_price,omitempty"`
	AvailableVolume  string     `json:"available_volume,omitempty"`
	AuctionStart     *time.Time `json:"auction_start,omitempty"`
	AuctionEnd       *time.Time `json:"auction_end,omitempty"`
	EstimatedEndTime *time.Time `json:"estimated_end_time,omitempty"`
	ObservedAt       time.Time  `json:"observed_at"`
}

// AuctionsResponse represents the HTTP response for the snapshot list.
type AuctionsResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
	Count    int               `json:"count"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleList handles GET /api/auctions requests. Snapshots are returned
// sorted by sell volume in ETH, descending.
func (h *AuctionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snapshots := h.monitor.Snapshots()

	resp := AuctionsResponse{
		Auctions: make([]AuctionResponse, 0, len(snapshots)),
		Count:    len(snapshots),
	}
	for _, snap := range snapshots {
		resp.Auctions = append(resp.Auctions, toAuctionResponse(snap))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandlePair handles GET /api/auctions/{sell}/{buy} requests.
func (h *AuctionsHandler) HandlePair(w http.ResponseWriter, r *http.Request) {
	sell := strings.ToUpper(chi.URLParam(r, "sell"))
	buy := strings.ToUpper(chi.URLParam(r, "buy"))

	if sell == "" || buy == "" {
		h.writeError(w, "missing sell or buy token symbol", http.StatusBadRequest)
		return
	}

	label := sell + "-" + buy
	snap, found := h.monitor.Snapshot(label)
	if !found {
		h.writeError(w, "no auction snapshot for pair "+label, http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, toAuctionResponse(snap))
}

func toAuctionResponse(snap *monitor.Snapshot) AuctionResponse {
	data := snap.Auction.Data()

	resp := AuctionResponse{
		Pair:          snap.Pair.String(),
		AuctionIndex:  data.AuctionIndex,
		State:         string(snap.Auction.State()),
		SellToken:     data.SellToken,
		BuyToken:      data.BuyToken,
		SellVolume:    data.SellVolume.String(),
		BuyVolume:     data.BuyVolume.String(),
		ExtraTokens:   data.ExtraTokens.String(),
		SellVolumeEth: snap.SellVolumeEth.String(),
		ObservedAt:    snap.ObservedAt,
	}

	if closing := auctions.ClosingPriceOf(snap.Auction); closing != nil {
		if v, ok := closing.Value(); ok {
			resp.ClosingPrice = v.String()
		}
	}

	switch a := snap.Auction.(type) {
	case *types.ScheduledAuction:
		start := a.AuctionStart
		resp.AuctionStart = &start
	case *types.RunningAuction:
		start := a.AuctionStart
		resp.AuctionStart = &start
		if v, ok := a.CurrentPrice.Value(); ok {
			resp.CurrentPrice = v.String()
		}
		resp.AvailableVolume = auctions.AvailableVolume(a).String()
		if end, ok := auctions.EstimatedEndTime(a); ok {
			resp.EstimatedEndTime = &end
		}
	case *types.EndedAuction:
		resp.AuctionStart = a.AuctionStart
		end := a.AuctionEnd
		resp.AuctionEnd = &end
	}

	return resp
}

func (h *AuctionsHandler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *AuctionsHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// Package segmenter is the bridge to the segmentation model service. The
// model runs as a sidecar process and is reached over a websocket; one
// request carries the scan, one response carries the candidate masks.
package segmenter

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"medclarity/pkg/masks"
)

// Params are the tunable detection knobs forwarded to the model.
type Params struct {
	PointsPerSide        int     `json:"points_per_side"`
	PredIoUThresh        float64 `json:"pred_iou_thresh"`
	StabilityScoreThresh float64 `json:"stability_score_thresh"`
	CropNLayers          int     `json:"crop_n_layers"`
	MinMaskRegionArea    int     `json:"min_mask_region_area"`
}

func DefaultParams() Params {
	return Params{
		PointsPerSide:        36,
		PredIoUThresh:        0.45,
		StabilityScoreThresh: 0.75,
		CropNLayers:          1,
		MinMaskRegionArea:    200,
	}
}

type ISegmenter interface {
	Segment(ctx context.Context, imageData []byte, params Params) ([]masks.Mask, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type segmentRequest struct {
	Image  string `json:"image"`
	Params Params `json:"params"`
}

type maskPayload struct {
	Segmentation   string  `json:"segmentation"`
	BBox           [4]int  `json:"bbox"`
	Area           int     `json:"area"`
	PredictedIoU   float64 `json:"predicted_iou"`
	StabilityScore float64 `json:"stability_score"`
}

type segmentResponse struct {
	Masks []maskPayload `json:"masks"`
	Error string        `json:"error,omitempty"`
}

type wsClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New creates the client and dials the segmentation service in the
// background; a failed initial dial is retried on demand at call time.
func New(log *logrus.Logger) ISegmenter {
	client := &wsClient{
		log:          log,
		readTimeout:  readTimeoutFromEnv(),
		writeTimeout: 10 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			log.Warnf("Initial connection to segmentation service failed: %v. Will retry on demand.", err)
		} else {
			log.Info("Successfully connected to segmentation service")
		}
	}()

	return client
}

// The model's forward pass dominates the round trip, so the read timeout is
// generous and tunable.
func readTimeoutFromEnv() time.Duration {
	if v := os.Getenv("SEGMENTER_READ_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 120 * time.Second
}

func (c *wsClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *wsClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("SEGMENTER_WS_URL")
	if url == "" {
		return errors.New("segmentation service URL not configured")
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	return nil
}

func (c *wsClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Segment sends one scan to the model and decodes the returned mask set.
// The connection is single-flight: the mutex is held for the whole exchange
// because the model is not safe for concurrent inference.
func (c *wsClient) Segment(ctx context.Context, imageData []byte, params Params) ([]masks.Mask, error) {
	if !c.IsConnected() {
		if err := c.Reconnect(); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.conn
	if conn == nil {
		return nil, errors.New("segmentation service not connected")
	}

	req := segmentRequest{
		Image:  base64.StdEncoding.EncodeToString(imageData),
		Params: params,
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(req); err != nil {
		c.dropConnLocked()
		return nil, fmt.Errorf("failed to send segmentation request: %w", err)
	}

	readDeadline := time.Now().Add(c.readTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(readDeadline) {
		readDeadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(readDeadline); err != nil {
		return nil, err
	}

	var resp segmentResponse
	if err := conn.ReadJSON(&resp); err != nil {
		c.dropConnLocked()
		return nil, fmt.Errorf("failed to read segmentation response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("segmentation service error: %s", resp.Error)
	}

	return decodeMasks(resp.Masks)
}

func (c *wsClient) dropConnLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

package analysisHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"

	"medclarity/internal/api/analysis"
)

// handleAnalysisWebSocket runs the pipeline on a binary image frame and
// streams per-stage progress events before the final result. One frame, one
// run; the connection stays open for follow-up uploads.
func (h *AnalysisHandler) handleAnalysisWebSocket(c *websocket.Conn) {
	h.log.Info("Analysis WebSocket client connected")
	defer h.log.Info("Analysis WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 10 * time.Minute

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Analysis WebSocket error: %v", err)
			} else {
				h.log.Info("Analysis WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		h.log.Info("Received binary message for analysis")

		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)

		onStage := func(stage string) {
			if err := c.WriteJSON(analysis.ProgressEvent{Stage: stage}); err != nil {
				h.log.Errorf("Error sending progress event: %v", err)
			}
		}

		result, err := h.analysisService.Analyze(ctx, message, "upload.png", onStage)
		cancel()

		if err != nil {
			h.log.Errorf("Error running analysis pipeline: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
)

// BotNotifier posts notification requests to the bot delivery service, which
// owns the actual push channel. Callers treat failures as log-and-continue.
type BotNotifier struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewBotNotifier(baseURL, secret string) *BotNotifier {
	return &BotNotifier{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *BotNotifier) NotifyTransaction(action string, notice domain.TransactionNotice) error {
	return n.post(fmt.Sprintf("/transaction/%s", action), notice)
}

func (n *BotNotifier) NotifyPayment(action string, notice domain.PaymentNotice) error {
	return n.post(fmt.Sprintf("/payment/%s", action), notice)
}

func (n *BotNotifier) NotifyWarning(targets []string) error {
	payload := struct {
		Targets []string `json:"targets"`
	}{Targets: targets}
	return n.post("/transaction/warning", payload)
}

func (n *BotNotifier) post(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("SECRET", n.secret)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification returned status %d", resp.StatusCode)
	}
	return nil
}

package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с сервисом профилей консультантов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса профилей
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetConsultant получает профиль консультанта
func (c *Client) GetConsultant(ctx context.Context, consultantID int64) (*Consultant, error) {
	url := fmt.Sprintf("%s/internal/consultants/%d", c.baseURL, consultantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrConsultantNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var consultant Consultant
	if err := json.NewDecoder(resp.Body).Decode(&consultant); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &consultant, nil
}

// GetConsultantWithGracefulDegradation получает профиль консультанта.
// Отсутствие консультанта пробрасывается как есть, прочие ошибки превращаются в ErrServiceDegraded:
// вызывающий решает, можно ли продолжить без профиля.
func (c *Client) GetConsultantWithGracefulDegradation(ctx context.Context, consultantID int64) (*Consultant, error) {
	c.log.Info("Fetching consultant profile consultant_id=%d", consultantID)

	consultant, err := c.GetConsultant(ctx, consultantID)
	if err != nil {
		if errors.Is(err, ErrConsultantNotFound) {
			c.log.Info("Consultant not found consultant_id=%d", consultantID)
			return nil, err
		}

		c.log.Error("ProfileService unavailable, applying graceful degradation for consultant_id=%d: %v", consultantID, err)
		return nil, fmt.Errorf("%w: consultant_id=%d, error=%v", ErrServiceDegraded, consultantID, err)
	}

	c.log.Info("Successfully fetched consultant profile consultant_id=%d, active=%t", consultantID, consultant.IsActive)
	return consultant, nil
}

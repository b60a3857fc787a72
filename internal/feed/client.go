package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"ofertas/internal/model"
)

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// feedResponse é o envelope do endpoint (formato DataTables legado).
type feedResponse struct {
	AaData [][]any `json:"aaData"`
}

type Client struct {
	originURL  string
	origin     *url.URL
	httpClient *http.Client
}

func NewClient(originURL string) (*Client, error) {
	origin, err := url.Parse(originURL)
	if err != nil {
		return nil, fmt.Errorf("ORIGIN_URL inválida %q: %w", originURL, err)
	}
	return &Client{originURL: originURL, origin: origin, httpClient: defaultHTTPClient}, nil
}

// FetchOffers baixa o feed e devolve as ofertas normalizadas, já sem as linhas sem id.
func (c *Client) FetchOffers() ([]model.Offer, error) {
	req, err := http.NewRequest("GET", c.originURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}

	var data feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("falha ao decodificar feed: %w", err)
	}

	offers := make([]model.Offer, 0, len(data.AaData))
	skipped := 0
	for _, row := range data.AaData {
		o, ok := Normalize(row, c.origin)
		if !ok {
			skipped++
			continue
		}
		offers = append(offers, o)
	}
	if skipped > 0 {
		log.Printf("Descartadas %d linhas sem id numérico", skipped)
	}

	return offers, nil
}

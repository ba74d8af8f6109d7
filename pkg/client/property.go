package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"vizit/pkg/model"
)

// PropertyLookup resolves listing display data by id. The scheduler treats
// the property catalog as an external collaborator and never writes to it.
type PropertyLookup interface {
	GetProperty(ctx context.Context, propertyID string) (*model.Property, error)
}

// ErrPropertyNotFound is returned when the property service has no record
// for the id. Callers decide whether that matters; the scheduler does not
// validate property existence.
var ErrPropertyNotFound = fmt.Errorf("property not found")

type PropertyClient struct {
	http *HttpClient
}

func NewPropertyClient(baseURL string, timeout time.Duration) *PropertyClient {
	return &PropertyClient{
		http: NewHttpClient(baseURL, timeout),
	}
}

func (c *PropertyClient) GetProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	resp, err := c.http.GET(ctx, "/api/v1/properties/"+url.PathEscape(propertyID))
	if err != nil {
		return nil, fmt.Errorf("property service request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrPropertyNotFound
	default:
		return nil, fmt.Errorf("property service returned status %d", resp.StatusCode)
	}

	var property model.Property
	if err := resp.DecodeJSON(&property); err != nil {
		return nil, fmt.Errorf("failed to decode property response: %w", err)
	}

	if property.ID == "" {
		property.ID = propertyID
	}
	return &property, nil
}

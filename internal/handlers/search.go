package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/ekaraca/campuslink/internal/models"
	"github.com/ekaraca/campuslink/internal/util"
)

// SearchHandler serves the user directory. Only id, username, role and the
// privacy flag are indexed, so a hit never leaks private content.
type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

type userDoc struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsPrivate bool   `json:"is_private"`
}

func (h *SearchHandler) IndexUser(ctx context.Context, user *models.User) error {
	doc := userDoc{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IsPrivate: user.IsPrivate,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("es: json.Marshal failed: %w", err)
	}

	res, err := h.ES.Index(
		h.Index,
		bytes.NewReader(data),
		h.ES.Index.WithDocumentID(fmt.Sprint(user.ID)),
		h.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es: index error: %s", res.Status())
	}
	return nil
}

func (h *SearchHandler) SearchUsers(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusOK, echo.Map{"total": 0, "items": []userDoc{}})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	query := map[string]interface{}{
		"from": from,
		"size": limit,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"username": map[string]interface{}{
					"query":     q,
					"fuzziness": "AUTO",
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.ES.Search(
		h.ES.Search.WithContext(ctx),
		h.ES.Search.WithIndex(h.Index),
		h.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return echo.NewHTTPError(http.StatusInternalServerError, "search error: "+res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	items := make([]userDoc, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total": parsed.Hits.Total.Value,
		"items": items,
	})
}

package cafe

import (
	"crypto/subtle"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// The /random endpoint draws ids from this fixed range, which is not
// guaranteed to match actual stored identifiers. Kept for compatibility
// with the original API.
const (
	randomCafeMin = 1
	randomCafeMax = 21
)

var cafeNotFoundBody = echo.Map{
	"error": echo.Map{"Not Found": "Sorry, we don't have a cafe at that id."},
}

func (a *App) handleHome(c echo.Context) error {
	return render(c, a.Views.Home())
}

// handleRandom picks a pseudo-random id in [randomCafeMin, randomCafeMax]
// and returns the cafe stored under it. A miss returns the standard 404
// body rather than crashing.
func (a *App) handleRandom(c echo.Context) error {
	id := int64(rand.IntN(randomCafeMax-randomCafeMin+1) + randomCafeMin)
	cafe, err := a.Store.GetCafe(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, cafeNotFoundBody)
		}
		return err
	}
	return c.JSON(http.StatusOK, cafe)
}

func (a *App) handleAll(c echo.Context) error {
	cafes, err := a.Store.ListCafes()
	if err != nil {
		return err
	}
	if cafes == nil {
		cafes = []Cafe{}
	}
	return c.JSON(http.StatusOK, echo.Map{"cafes": cafes})
}

// handleSearch filters cafes by exact location match. A miss returns an
// error-shaped body with HTTP 200, preserving the API's historical contract.
func (a *App) handleSearch(c echo.Context) error {
	loc := c.QueryParam("loc")
	cafes, err := a.Store.SearchByLocation(loc)
	if err != nil {
		return err
	}
	if len(cafes) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"error": echo.Map{"Not Found": "Sorry, we don't have a cafe at that location."},
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"cafes": cafes})
}

// handleAdd creates a cafe from query parameters. The four amenity flags
// coerce from parameter presence: any non-empty value, including the literal
// text "false", counts as true. This matches the original API's behavior.
func (a *App) handleAdd(c echo.Context) error {
	var price *string
	if v := c.QueryParam("coffee_price"); v != "" {
		price = &v
	}
	cafe := Cafe{
		Name:         c.QueryParam("name"),
		MapURL:       c.QueryParam("map_url"),
		ImgURL:       c.QueryParam("img_url"),
		Location:     c.QueryParam("loc"),
		Seats:        c.QueryParam("seats"),
		HasSockets:   c.QueryParam("sockets") != "",
		HasToilet:    c.QueryParam("toilet") != "",
		HasWifi:      c.QueryParam("wifi") != "",
		CanTakeCalls: c.QueryParam("calls") != "",
		CoffeePrice:  price,
	}
	if _, err := a.Store.CreateCafe(cafe); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"response": echo.Map{"success": "Successfully added the new cafe."},
	})
}

func (a *App) handleUpdatePrice(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !a.Store.Exists(id) {
		return c.JSON(http.StatusNotFound, cafeNotFoundBody)
	}
	newPrice := c.QueryParam("new_price")
	if err := a.Store.UpdatePrice(id, "$"+newPrice); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": echo.Map{"Successfully": "Price updated successfully"},
	})
}

// handleReportClosed deletes a cafe when the id exists and the api_key
// parameter matches the configured secret. Any other outcome, including a
// wrong key, returns the same 404 body — the API has never distinguished a
// bad key from a missing id.
func (a *App) handleReportClosed(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !a.Store.Exists(id) {
		return c.JSON(http.StatusNotFound, cafeNotFoundBody)
	}
	key := c.QueryParam("api_key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(a.Config.APIKey)) != 1 {
		return c.JSON(http.StatusNotFound, cafeNotFoundBody)
	}
	if err := a.Store.DeleteCafe(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": echo.Map{"Successfully": "Cafe was deleted successfully"},
	})
}

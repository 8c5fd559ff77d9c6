package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/server/http/dto"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

const (
	importFileField = "file"
	noFileMessage   = "Please select a CSV file first."
	tooLargeMessage = "The import file is too large."
)

var errNoImportFile = errors.New("no import file")

// ImportHandler accepts CSV and TSV exports.
type ImportHandler struct {
	facade ImportFacade
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(facade ImportFacade) *ImportHandler {
	return &ImportHandler{facade: facade}
}

// Import handles POST /api/orders/import. The export is read from the
// multipart "file" field or from the raw body.
func (h *ImportHandler) Import(c *gin.Context) {
	text, err := readImportText(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, dto.ImportResponse{Message: tooLargeMessage})
		case errors.Is(err, errNoImportFile):
			c.JSON(http.StatusBadRequest, dto.ImportResponse{Message: noFileMessage})
		default:
			c.JSON(http.StatusBadRequest, dto.ImportResponse{Message: err.Error()})
		}
		return
	}

	res, err := h.facade.ImportOrders(c.Request.Context(), text)
	if err != nil {
		var importErr *usecase.ImportError
		switch {
		case errors.Is(err, domainErrors.ErrEmptyImport):
			c.JSON(http.StatusBadRequest, dto.ImportResponse{Message: "No orders found in the CSV file."})
		case errors.As(err, &importErr):
			c.JSON(http.StatusUnprocessableEntity, dto.ImportResponse{
				Message:  "Import failed: " + importErr.Error(),
				Imported: importErr.Succeeded,
				Failed:   importErr.Failed,
				Skipped:  res.Skipped,
				Errors:   importErr.Errors,
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ImportResponse{
				Message:  "Import failed: " + err.Error(),
				Imported: res.Imported,
				Skipped:  res.Skipped,
			})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{
		Message:  fmt.Sprintf("Successfully imported %d orders!", res.Imported),
		Imported: res.Imported,
		Skipped:  res.Skipped,
	})
}

func readImportText(c *gin.Context) (string, error) {
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		fh, err := c.FormFile(importFileField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", err
			}
			return "", errNoImportFile
		}
		data, err := readFile(fh)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", errNoImportFile
	}
	return string(data), nil
}

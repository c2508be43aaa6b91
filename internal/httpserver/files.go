package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type FileNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type,omitempty"`
	Children []FileNode `json:"children,omitempty"`
}

type FilesHandler struct{}

// List serves the demo file tree consumed by the frontend explorer widget.
func (h *FilesHandler) List(c echo.Context) error {
	items := []FileNode{
		{
			ID: "1", Name: "Documents",
			Children: []FileNode{
				{ID: "1-1", Name: "Reports", Children: []FileNode{
					{ID: "1-1-1", Name: "2023_Q1_Report.pdf", Type: "file"},
					{ID: "1-1-2", Name: "2023_Q2_Report.pdf", Type: "file"},
				}},
				{ID: "1-2", Name: "Invoices", Children: []FileNode{
					{ID: "1-2-1", Name: "Invoice_001.pdf", Type: "file"},
					{ID: "1-2-2", Name: "Invoice_002.pdf", Type: "file"},
				}},
			},
		},
		{
			ID: "2", Name: "Photos",
			Children: []FileNode{
				{ID: "2-1", Name: "Vacations", Children: []FileNode{
					{ID: "2-1-1", Name: "Beach.jpg", Type: "file"},
					{ID: "2-1-2", Name: "Mountain.jpg", Type: "file"},
				}},
				{ID: "2-2", Name: "Family", Children: []FileNode{
					{ID: "2-2-1", Name: "Birthday.jpg", Type: "file"},
				}},
			},
		},
		{
			ID: "3", Name: "Music",
			Children: []FileNode{
				{ID: "3-1", Name: "Pop", Children: []FileNode{
					{ID: "3-1-1", Name: "Hit_Song.mp3", Type: "file"},
				}},
				{ID: "3-2", Name: "Classical", Children: []FileNode{
					{ID: "3-2-1", Name: "Symphony_No_5.mp3", Type: "file"},
				}},
			},
		},
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Files successfully retrieved",
		"data":    echo.Map{"items": items},
	})
}

package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salesboard/internal/service/report"
	"salesboard/internal/store"
)

type tableResponse struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
}

// ListTables 报表输出表列表
// GET /api/tables
func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.store.ListTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tables == nil {
		tables = []store.TableInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"items": tables, "total": len(tables)})
}

// GetTable 读取一张输出表，支持 offset / limit 分页
// GET /api/tables/:name
func (h *Handler) GetTable(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	sheet, err := h.store.ReadTable(c.Param("name"))
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := sheet.Rows
	total := len(rows)
	if offset > total {
		offset = total
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = [][]any{}
	}

	c.JSON(http.StatusOK, tableResponse{
		Name:    sheet.Name,
		Columns: sheet.ColumnNames(),
		Rows:    rows,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	})
}

// ListPeriods 期数表
// GET /api/periods
func (h *Handler) ListPeriods(c *gin.Context) {
	periods, err := h.store.ListPeriods(report.TablePeriods)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			c.JSON(http.StatusOK, gin.H{"items": []store.PeriodRow{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": periods})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

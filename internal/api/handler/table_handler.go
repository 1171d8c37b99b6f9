package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// TableHandler exposes the editable user table over HTTP. It holds no state
// of its own; every request is translated into one controller action.
type TableHandler struct {
	table ports.TableController
}

func NewTableHandler(table ports.TableController) *TableHandler {
	return &TableHandler{table: table}
}

// View handles GET /v1/table.
//
// @Summary      Current table snapshot
// @Tags         table
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Case-insensitive first name filter"
// @Success      200  {object}  ports.TableView
// @Failure      401  {object}  errorResponse
// @Router       /v1/table [get]
func (h *TableHandler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.table.View(c.QueryParam("q")))
}

// Load handles POST /v1/table/load.
//
// @Summary      Reload records from the registry
// @Tags         table
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.TableView
// @Failure      502  {object}  errorResponse
// @Router       /v1/table/load [post]
func (h *TableHandler) Load(c echo.Context) error {
	if err := h.table.Load(operatorContext(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.table.View(c.QueryParam("q")))
}

// RowState handles GET /v1/table/rows/:id.
//
// @Summary      Lifecycle state of one row
// @Tags         table
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  rowStateResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/table/rows/{id} [get]
func (h *TableHandler) RowState(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowStateResponse{UserID: id, State: h.table.RowState(id)})
}

// BeginEdit handles POST /v1/table/rows/:id/edit.
//
// @Summary      Open the edit session on a row
// @Tags         table
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  ports.TableView
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/table/rows/{id}/edit [post]
func (h *TableHandler) BeginEdit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.table.BeginEdit(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.table.View(""))
}

// SetField handles PATCH /v1/table/draft.
//
// @Summary      Change one draft field
// @Tags         table
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setFieldRequest  true  "Field and value"
// @Success      200   {object}  ports.TableView
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/table/draft [patch]
func (h *TableHandler) SetField(c echo.Context) error {
	var req setFieldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	field, err := domain.ParseField(req.Field)
	if err != nil {
		return err
	}
	if err := h.table.SetField(field, req.Value); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.table.View(""))
}

// Save handles POST /v1/table/draft/save.
//
// @Summary      Persist the open draft
// @Description  Without confirm=true nothing is sent and the prompt is returned.
// @Tags         table
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      confirmRequest  false  "Confirmation"
// @Success      200   {object}  outcomeResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/table/draft/save [post]
func (h *TableHandler) Save(c echo.Context) error {
	confirm, err := bindConfirm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	out, err := h.table.Save(operatorContext(c), confirm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcomeResponse{Applied: out.Applied, Prompt: out.Prompt, Table: h.table.View("")})
}

// Cancel handles POST /v1/table/draft/cancel.
//
// @Summary      Discard the open draft
// @Tags         table
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.TableView
// @Failure      409  {object}  errorResponse
// @Router       /v1/table/draft/cancel [post]
func (h *TableHandler) Cancel(c echo.Context) error {
	if err := h.table.Cancel(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.table.View(""))
}

// Delete handles DELETE /v1/table/rows/:id.
//
// @Summary      Delete a user
// @Description  Without confirm=true nothing is sent and the prompt is returned.
// @Tags         table
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true   "User id"
// @Param        body  body      confirmRequest  false  "Confirmation"
// @Success      200   {object}  outcomeResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/table/rows/{id} [delete]
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	confirm, err := bindConfirm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	out, err := h.table.Delete(operatorContext(c), id, confirm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcomeResponse{Applied: out.Applied, Prompt: out.Prompt, Table: h.table.View("")})
}

// Register handles POST /v1/users.
//
// @Summary      Register a new user in the registry
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerUserRequest  true  "New user"
// @Success      201   {object}  domain.Record
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/users [post]
func (h *TableHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	rec, err := h.table.Register(operatorContext(c), req.toNewUser())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

// DismissNotice handles DELETE /v1/table/notice.
//
// @Summary      Clear the last failure notice
// @Tags         table
// @Security     BearerAuth
// @Success      204
// @Router       /v1/table/notice [delete]
func (h *TableHandler) DismissNotice(c echo.Context) error {
	h.table.DismissNotice()
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// bindConfirm turns the request's confirm flag into a Confirmer. An empty
// body is a decline.
func bindConfirm(c echo.Context) (ports.Confirmer, error) {
	var req confirmRequest
	if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return ports.ConfirmFunc(func(context.Context, string) bool {
		return req.Confirm
	}), nil
}

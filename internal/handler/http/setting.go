package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/handler/http/response"
)

type SettingHandler interface {
	GetGeofence(w http.ResponseWriter, r *http.Request)
	UpdateGeofence(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.SettingService
}

func NewSettingHandler(settingService setting.SettingService) SettingHandler {
	return &settingHandlerImpl{
		settingService: settingService,
	}
}

// GetGeofence implements SettingHandler.
func (h *settingHandlerImpl) GetGeofence(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.GetGeofence(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateGeofence implements SettingHandler.
func (h *settingHandlerImpl) UpdateGeofence(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateGeofenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode geofence request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.UpdateGeofence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance location updated successfully", result)
}

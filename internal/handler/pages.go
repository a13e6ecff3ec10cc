package handlers

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// 偏好结构体要进 cookie session，注册给 gob
func init() {
	gob.Register(Preferences{})
}

// 页面数据接口：模板渲染在前端完成，这里只给 JSON

func (h *Handlers) handleForecasts(c *gin.Context) {
	const key = "forecasts"
	if cached, ok := h.pageCache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	data := gin.H{
		"current": gin.H{
			"temperature": 28,
			"condition":   "Partly Cloudy",
			"humidity":    65,
			"wind_speed":  15,
			"visibility":  10,
		},
		"forecast": []gin.H{
			{"day": "Today", "high": 28, "low": 22, "condition": "sunny", "rain_chance": 10},
			{"day": "Tomorrow", "high": 25, "low": 20, "condition": "rainy", "rain_chance": 80},
			{"day": "Thursday", "high": 27, "low": 21, "condition": "partly-cloudy", "rain_chance": 30},
			{"day": "Friday", "high": 29, "low": 23, "condition": "sunny", "rain_chance": 5},
			{"day": "Saturday", "high": 26, "low": 19, "condition": "cloudy", "rain_chance": 45},
		},
		"alerts": []gin.H{
			{"type": "cyclone", "severity": "high", "message": "Potential cyclone formation in Bay of Bengal"},
			{"type": "flood", "severity": "medium", "message": "Heavy rainfall may cause flooding in low-lying areas"},
			{"type": "landslide", "severity": "low", "message": "Minimal risk in hilly areas"},
		},
	}
	h.pageCache.Set(key, data, 5*time.Minute)
	c.JSON(http.StatusOK, data)
}

func (h *Handlers) handleEmergencyAlerts(c *gin.Context) {
	const key = "emergency-alerts"
	if cached, ok := h.pageCache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	data := []gin.H{
		{
			"id":        1,
			"type":      "CYCLONE",
			"severity":  "critical",
			"location":  "Odisha and West Bengal",
			"message":   "Heavy rainfall expected in coastal areas",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		{
			"id":        2,
			"type":      "FLOOD",
			"severity":  "high",
			"location":  "Yamuna River",
			"message":   "Water levels rising. Stay away from riverbanks",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	h.pageCache.Set(key, data, 5*time.Minute)
	c.JSON(http.StatusOK, data)
}

func (h *Handlers) handleDisasterLocations(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"lat": 28.6139, "lng": 77.209, "title": "Delhi NCR", "type": "Earthquake Alert", "severity": "high"},
		{"lat": 22.5726, "lng": 88.3639, "title": "Kolkata, West Bengal", "type": "Cyclone Alert", "severity": "critical"},
	})
}

func (h *Handlers) handleRescueResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"resources": gin.H{
			"helicopters": gin.H{"available": 3, "status": "Ready"},
			"boats":       gin.H{"available": 8, "status": "Ready"},
			"ambulances":  gin.H{"available": 12, "status": "Ready"},
			"personnel":   gin.H{"available": 45, "status": "On Standby"},
		},
		"contacts": []gin.H{
			{"name": "Emergency Helpline", "number": "112", "description": "All Emergency Services"},
			{"name": "Fire Department", "number": "101", "description": "Fire & Rescue Services"},
			{"name": "Police", "number": "100", "description": "Law Enforcement"},
			{"name": "Medical Emergency", "number": "108", "description": "Ambulance Service"},
			{"name": "Disaster Management", "number": "1078", "description": "NDRF Helpline"},
		},
	})
}

func (h *Handlers) handleContacts(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"name": "Emergency Helpline", "number": "112", "description": "All Emergency Services"},
		{"name": "Fire Department", "number": "101", "description": "Fire & Rescue Services"},
		{"name": "Police", "number": "100", "description": "Law Enforcement"},
		{"name": "Medical Emergency", "number": "108", "description": "Ambulance Service"},
		{"name": "Disaster Management", "number": "1078", "description": "NDRF Helpline"},
	})
}

func (h *Handlers) handleGuidelines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": []string{"earthquake", "flood", "fire", "cyclone", "general"},
		"guidelines": gin.H{
			"earthquake": gin.H{
				"before": []string{
					"Prepare an emergency kit with water, food, flashlight, and first aid supplies",
					"Secure heavy furniture and appliances to walls",
					"Identify safe spots in each room (under sturdy tables, away from glass)",
					"Practice \"Drop, Cover, and Hold On\" with family members",
					"Keep important documents in a waterproof container",
				},
				"during": []string{
					"Drop: Get down on hands and knees immediately",
					"Cover: Take cover under a sturdy table or desk",
					"Hold On: Hold onto your shelter and protect your head",
					"Stay away from windows, mirrors, and heavy objects",
					"If outdoors, move away from buildings, trees, and power lines",
				},
				"after": []string{
					"Check yourself and others for injuries",
					"Check for hazards like gas leaks, electrical damage, or fires",
					"Use stairs, not elevators",
					"Stay away from damaged buildings",
					"Be prepared for aftershocks",
				},
			},
		},
	})
}

// supportedLanguages 设置页语言列表；名称由 x/text 给出当地写法
var supportedLanguages = []string{"en", "hi", "bn", "te", "ta", "mr", "gu", "kn", "ml", "pa", "or", "as"}

func (h *Handlers) handleLanguages(c *gin.Context) {
	out := make([]gin.H, 0, len(supportedLanguages))
	for _, code := range supportedLanguages {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		name := display.Self.Name(tag)
		if name == "" {
			name = code
		}
		out = append(out, gin.H{"code": code, "name": name})
	}
	c.JSON(http.StatusOK, out)
}

const preferencesKey = "user_preferences"

// Preferences 会话里的用户偏好
type Preferences struct {
	Language         string `json:"language"`
	FontSize         int    `json:"font_size"`
	HighContrast     bool   `json:"high_contrast"`
	DarkMode         bool   `json:"dark_mode"`
	Notifications    bool   `json:"notifications"`
	LocationServices bool   `json:"location_services"`
}

func defaultPreferences() Preferences {
	return Preferences{
		Language:         "en",
		FontSize:         16,
		Notifications:    true,
		LocationServices: true,
	}
}

func currentPreferences(c *gin.Context) Preferences {
	session := sessions.Default(c)
	if prefs, ok := session.Get(preferencesKey).(Preferences); ok {
		return prefs
	}
	return defaultPreferences()
}

func (h *Handlers) handleGetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, currentPreferences(c))
}

func (h *Handlers) handleSavePreferences(c *gin.Context) {
	var req struct {
		Language         *string `json:"language"`
		FontSize         *int    `json:"font_size"`
		HighContrast     *bool   `json:"high_contrast"`
		DarkMode         *bool   `json:"dark_mode"`
		Notifications    *bool   `json:"notifications"`
		LocationServices *bool   `json:"location_services"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs := currentPreferences(c)
	if req.Language != nil {
		prefs.Language = *req.Language
	}
	if req.FontSize != nil {
		prefs.FontSize = *req.FontSize
	}
	if req.HighContrast != nil {
		prefs.HighContrast = *req.HighContrast
	}
	if req.DarkMode != nil {
		prefs.DarkMode = *req.DarkMode
	}
	if req.Notifications != nil {
		prefs.Notifications = *req.Notifications
	}
	if req.LocationServices != nil {
		prefs.LocationServices = *req.LocationServices
	}

	session := sessions.Default(c)
	session.Set(preferencesKey, prefs)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Preferences saved", "preferences": prefs})
}

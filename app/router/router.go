package router

import (
	"net/http"
	"strings"

	"estampa-studio/app/controller"
)

type Controllers struct {
	Config  *controller.ConfigController
	Upload  *controller.UploadController
	Session *controller.SessionController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers the HTTP surface. uploadDir, when non-empty, is
// served under /uploads/ for the local asset store.
func SetupRoutes(controllers *Controllers, uploadDir string) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Customizer configuration
	http.HandleFunc("/customizer/config", controllers.Config.GetConfig)
	http.HandleFunc("/customizer/templates", controllers.Config.GetTemplates)

	// User image uploads
	http.HandleFunc("/customizer/uploads", controllers.Upload.Upload)

	// Session collection - POST creates
	http.HandleFunc("/customizer/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Session.Create(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Session routes: /customizer/sessions/{id}[/...]
	http.HandleFunc("/customizer/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/customizer/sessions/")
		parts := strings.SplitN(path, "/", 3)
		sessionID := parts[0]
		if sessionID == "" {
			http.Error(w, "session id is required", http.StatusBadRequest)
			return
		}

		// Bare session resource
		if len(parts) == 1 {
			switch r.Method {
			case http.MethodGet:
				controllers.Session.Get(w, r, sessionID)
			case http.MethodDelete:
				controllers.Session.Delete(w, r, sessionID)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch parts[1] {
		case "elements":
			// POST /elements adds; PUT/PATCH/DELETE /elements/{elemId}
			if len(parts) == 2 {
				if r.Method == http.MethodPost {
					controllers.Session.AddElement(w, r, sessionID)
				} else {
					http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				}
				return
			}
			elementID := parts[2]
			switch r.Method {
			case http.MethodPut, http.MethodPatch:
				controllers.Session.UpdateElement(w, r, sessionID, elementID)
			case http.MethodDelete:
				controllers.Session.RemoveElement(w, r, sessionID, elementID)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "events":
			if r.Method == http.MethodPost {
				controllers.Session.HandleEvent(w, r, sessionID)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "view":
			controllers.Session.SetView(w, r, sessionID)
		case "color":
			controllers.Session.SetColor(w, r, sessionID)
		case "size":
			controllers.Session.SetSize(w, r, sessionID)
		case "product":
			controllers.Session.SetProduct(w, r, sessionID)
		case "export":
			if r.Method == http.MethodPost {
				controllers.Session.Export(w, r, sessionID)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Locally stored uploads (development asset store)
	if uploadDir != "" {
		http.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	}
}

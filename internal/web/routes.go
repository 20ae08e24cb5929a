package web

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the HTML pages at / and /view, and the JSON API under
// /calculator/views.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.MountPage)

	r.Route("/view/{id}", func(r chi.Router) {
		r.Get("/", h.RenderPage)
		r.Post("/", h.SubmitPage)
		r.Post("/unmount", h.UnmountPage)
	})

	r.Route("/calculator/views", func(r chi.Router) {
		r.Post("/", h.Mount)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Unmount)
			r.Put("/operands", h.SetOperands)
			r.Post("/clear", h.Clear)
			r.Post("/theme", h.ToggleTheme)
			r.Post("/history/{index}", h.SelectHistory)
			r.Post("/keys/{key}", h.Key)
			r.Post("/batch", h.Batch)
			r.Post("/{op}", h.Calculate)
		})
	})
}

package server

func (s *Server) setupRoutes() {
	limiter := newRateLimiter(s.codeRate)

	s.app.Post("/api/chat", s.chatHandler)
	s.app.Get("/api/health", s.healthHandler)

	s.app.Get("/api/history/search", s.searchHistoryHandler)
	s.app.Get("/api/history/:conversation_id", s.loadHistoryHandler)

	s.app.Post("/api/cal/request-verification-code", s.requestVerificationCodeHandler, limiter.middleware())
	s.app.Post("/api/cal/verify-email-code", s.verifyEmailCodeHandler)

	s.app.Post("/api/upload", s.uploadHandler)
}

// Package server exposes a Generator over HTTP with a chi router.
//
// Routes:
//
//	GET    /healthz
//	GET    /templates               ?category= &tag= &q=
//	GET    /templates/{name}
//	POST   /generate
//	POST   /variations
//	POST   /batch
//	POST   /estimate
//	POST   /extract                 structured view of generated copy
//	GET    /history                 ?limit= &template= &success_only= &since=
//	GET    /history/export          ?format=json|csv|txt
//	DELETE /history
//	DELETE /cache
//	GET    /stats
//	GET    /metrics                 when WithMetrics is set
//
// Generation endpoints always answer with the Result document; the status
// is 200 when it succeeded and 422 when it did not.
package server

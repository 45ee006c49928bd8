// Package server exposes clustering over HTTP and WebSocket.
//
// Endpoints:
//
//	GET  /initial_data  generate a point cloud and store it under a session
//	POST /kmeans        run k-means on the session dataset (form encoded)
//	GET  /ws/kmeans     stream the iterations of a run, one frame each
//	GET  /chart         render the session dataset as an HTML scatter plot
//	DELETE /session     drop the session dataset
//	GET  /metrics       Prometheus exposition (when a collector is set)
//	GET  /healthz       liveness
//
// Requests without a session parameter fall back to the session cookie set
// by /initial_data, so a browser can use the API without tracking IDs.
//
// The server is stateless apart from the session store and an optional
// result cache for deterministic (manual) runs.
package server

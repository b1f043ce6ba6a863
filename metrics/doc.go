// Package metrics exports generation activity as Prometheus metrics.
//
// A Collector observes the remote client through provider.Monitor and the
// orchestrator through a generator callback:
//
//	reg := prometheus.NewRegistry()
//	c, err := metrics.New(reg)
//	if err != nil {
//	    return err
//	}
//	mgr := provider.NewManager(client, provider.WithMonitor(c))
//	gen := generator.New(nil, mgr)
//	gen.RegisterCallback(c.ObserveResult)
//	http.Handle("/metrics", metrics.Handler(reg))
//
// Every metric name carries the "contentkit_" namespace.
package metrics

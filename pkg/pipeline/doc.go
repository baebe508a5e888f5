// Package pipeline implements MonitorPipeline (§4.4): reshaping a
// SensorNet snapshot into per-step events, buffering them against
// backpressure, tagging them with ground facts through a workflow,
// windowing them so the evaluator knows the last step, stepping one
// Monitor per watched query for each windowed event, and delivering
// decisions to listeners.
package pipeline

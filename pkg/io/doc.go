// Package io reads and writes graphs, terminal costs and solver results.
//
// # Graph JSON
//
// The graph format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "a", "pos": [0, 0], "cost": 12.5},
//	    {"id": "b", "pos": [1, 0], "cost": 3, "cost2": 1}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b", "weight": 1.5}
//	  ]
//	}
//
// Node fields besides id are optional. cost and cost2 carry the terminal
// costs of the single-cost and two-cost models; pos pins the node when
// rendering; meta is a freeform object. An edge without weight weighs 1.
//
// Use [ReadJSON] or [ImportJSON] to decode and [WriteJSON] or [ExportJSON] to
// encode. Round trips preserve node order, edge order, weights and costs.
//
// # Road networks
//
// [ReadRoadNetwork] loads line-delimited JSON road records. Each record is a
// directed road between two intersections; the edge weight is the travel
// time length/speedLimit and every intersection is placed at the mean of the
// road endpoints that touch it.
//
// # Results
//
// [WriteResult] encodes a solver result together with the run parameters.
package io

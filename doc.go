// Package pntools is a connectomics toolbox for olfactory projection
// neurons: fetch reconstructions and neuropil meshes from CATMAID, prune
// and dissect arbours, quantify innervation, and push the results into a
// graph database.
//
// 🧠 What is pntools?
//
//	A thread-safe toolbox that brings together:
//		• Skeletons: rooted tree morphologies with connectors, Strahler
//		  order, reroot, subset, and geodesic measures
//		• Volumes: triangle-mesh neuropils with containment and resize
//		• Pruning: restrict arbours to volumes, cut axons at the primary
//		  neurite, strip antennal lobes
//		• Innervation: cable-length and end-node matrices across volumes,
//		  with per-neuron or per-volume normalisation
//		• Sampling: upstream review sheets with manual, auto, or seeded
//		  random ordering
//		• Statistics: lifetime kurtosis, lifetime sparseness, permutation
//		  tests
//		• Export: neurons and review sheets as a Neo4j graph
//
// Everything is organized under focused subpackages:
//
//	skeleton/   — tree morphology type, traversal and subset primitives
//	volume/     — triangle meshes, containment, enclosed volume
//	prune/      — volume, Strahler, and axon pruning strategies
//	cable/      — labelled innervation matrices
//	catmaid/    — HTTP client for CATMAID servers
//	sampling/   — upstream audit and review sheets
//	stats/      — tuning statistics and permutation testing
//	radar/      — radar charts of innervation matrices
//	connectome/ — Neo4j import and adjacency queries
//	swc/        — SWC morphology encoding and decoding
//	cmd/        — the pntools command line
//
// Quick ASCII example:
//
//	    soma
//	     │
//	     ├── dendrite ⇢ antennal lobe
//	     └── axon     ⇢ mushroom body, lateral horn
//
//	a projection neuron relays odour signals from the antennal lobe to
//	higher brain centres.
//
//	go get github.com/NikDrummond/pntools
package pntools

// Package commands defines the pntools CLI and wires server access for
// subcommands.
//
// Commands
//
//   - volumes         List or fetch CATMAID volume meshes
//   - gloms           List glomerulus meshes for one hemisphere
//   - prune           Prune an SWC morphology to a volume
//   - axon            Extract the axonic arbour of projection neurons
//   - cable           Cable-length matrix of morphologies across volumes
//   - ends            End-node matrix of morphologies across volumes
//   - radar           Radar chart of a cable or ends matrix
//   - upstream        Build an upstream review sheet for a skeleton
//   - check-upstream  Audit a skeleton for untraced inputs
//   - stats           Lifetime kurtosis, sparseness, and permutation tests
//   - export          Push skeletons and review sheets into Neo4j
//
// # Implementation
//
// The root command loads .env, binds PNTOOLS_* environment variables
// through viper, and configures slog before any subcommand runs, so
// handlers share one CATMAID client configuration.
package commands

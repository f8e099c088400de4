// Package tree implements the concurrent Monte Carlo Tree Search node
// engine: the per-node data, the expansion handshake, children pruning by
// minimum policy ratio, Thompson-sampling selection over posterior Beta
// distributions, back-propagation with online (Welford) variance, virtual
// loss, and the final-move comparator.
//
// Everything outside this package — the evaluator, the game state, the
// search driver, and the random source — is consumed only through
// interfaces: those in collaborators.go, and rng.Source for the random
// source. tree never implements game rules, never
// calls a neural network, and never schedules goroutines; it only holds the
// tree and the rules for mutating it safely under concurrent access.
package tree

// Package costs derives terminal costs for route solving from the distances
// between every node and a set of caller locations.
//
// [Distances] runs one shortest-path search per caller along edge direction.
// A [CostFunc] then folds the caller probabilities and distances of a node
// into a single cost, e.g. the expected distance ([ExpectedValue]) or the
// probability that the distance exceeds a limit ([ExceedingDistance]).
// [Compute] applies a cost function to every node.
package costs

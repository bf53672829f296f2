package colour

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
)

// Cluster is one group of colours found by k-means.
type Cluster struct {
	// Centroid is the mean colour of the cluster, rounded to 8-bit channels.
	Centroid RGB

	// Weight is the fraction of points assigned to the cluster (sums to 1).
	Weight float64
}

// KMeans groups colours with k-means clustering.
type KMeans struct {
	maxIterations int
	convergence   float64
}

// NewKMeans creates a KMeans with default settings.
func NewKMeans() *KMeans {
	return &KMeans{
		maxIterations: 20,
		convergence:   2.0,
	}
}

// Cluster partitions points into at most k clusters.
// The random source is seeded from seed, so equal inputs yield equal clusters.
// When there are no more than k distinct colours, each distinct colour is its
// own cluster weighted by frequency. Clusters are returned by descending
// weight, ties broken by channel order.
func (km *KMeans) Cluster(points []RGB, k int, seed int64) []Cluster {
	if len(points) == 0 || k < 1 {
		return nil
	}

	counts := make(map[RGB]int)
	unique := make([]RGB, 0)
	for _, p := range points {
		if counts[p] == 0 {
			unique = append(unique, p)
		}
		counts[p]++
	}

	if len(unique) <= k {
		clusters := make([]Cluster, len(unique))
		for i, u := range unique {
			clusters[i] = Cluster{Centroid: u, Weight: float64(counts[u]) / float64(len(points))}
		}
		sortClusters(clusters)
		return clusters
	}

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- clustering needs reproducibility, not secrecy

	vectors := make([]point3D, len(points))
	for i, p := range points {
		vectors[i] = point3D{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
	}

	centroids, weights := km.run(vectors, k, rng)

	clusters := make([]Cluster, 0, len(centroids))
	for i, c := range centroids {
		if weights[i] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Centroid: c.rgb(), Weight: weights[i]})
	}
	sortClusters(clusters)
	return clusters
}

func sortClusters(clusters []Cluster) {
	slices.SortStableFunc(clusters, func(a, b Cluster) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Centroid.R, b.Centroid.R); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Centroid.G, b.Centroid.G); c != 0 {
			return c
		}
		return cmp.Compare(a.Centroid.B, b.Centroid.B)
	})
}

// point3D represents a point in 3D RGB color space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func (p point3D) rgb() RGB {
	return RGB{R: roundChannel(p.R), G: roundChannel(p.G), B: roundChannel(p.B)}
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// run performs k-means clustering and returns centroids with their relative weights.
func (km *KMeans) run(points []point3D, k int, rng *rand.Rand) ([]point3D, []float64) {
	centroids := km.initializeCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < km.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of assignments moved.
		if iter > 0 && float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := recalculateCentroids(points, assignments, k, rng)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < km.convergence {
			break
		}
	}

	// Final assignment against the settled centroids.
	for i, point := range points {
		assignments[i] = nearestCentroid(point, centroids)
	}

	weights := make([]float64, k)
	for _, a := range assignments {
		weights[a]++
	}
	for i := range weights {
		weights[i] /= float64(len(points))
	}

	return centroids, weights
}

// initializeCentroids chooses starting centroids with k-means++.
func (km *KMeans) initializeCentroids(points []point3D, k int, rng *rand.Rand) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		total := 0.0

		for i, point := range points {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := point.distance(c); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		if total == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// nearestCentroid finds the index of the nearest centroid to a point.
func nearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := point.distance(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its points.
// An empty cluster is reseeded from a random point.
func recalculateCentroids(points []point3D, assignments []int, k int, rng *rand.Rand) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		c := assignments[i]
		sums[c].R += point.R
		sums[c].G += point.G
		sums[c].B += point.B
		counts[c]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			centroids[i] = points[rng.Intn(len(points))]
		}
	}
	return centroids
}

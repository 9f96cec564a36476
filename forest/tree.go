package forest

import (
	"math/rand/v2"
	"sort"
)

// node is a single split or leaf of a fitted tree.
type node struct {
	left        *node
	right       *node
	splitVar    int
	splitVal    float64
	classCounts []int
	impurity    float64
	leaf        bool
	samples     int
}

// treeClassifier is one CART tree of the ensemble. Split gains are weighted
// by a per-feature penalty before candidates are compared, so a heavily
// penalized feature wins a node only when its raw gain is large enough to
// survive the discount.
type treeClassifier struct {
	root        *node
	minSplit    int
	minLeaf     int
	maxDepth    int
	maxFeatures int
	nFeatures   int
	gainPenalty []float64 // nil means every coefficient is 1
	rnd         *rand.Rand
}

type stackNode struct {
	inx              []int
	constantFeatures []bool
	depth            int
	node             *node
}

// lifo stack for unexpanded nodes
type stack []*stackNode

func (s stack) Empty() bool        { return len(s) == 0 }
func (s *stack) Push(n *stackNode) { *s = append(*s, n) }
func (s *stack) Pop() *stackNode {
	d := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return d
}

func newTreeClassifier(minSplit, minLeaf, maxDepth, maxFeatures int, penalty []float64, seed int64) *treeClassifier {
	return &treeClassifier{
		minSplit:    minSplit,
		minLeaf:     minLeaf,
		maxDepth:    maxDepth,
		maxFeatures: maxFeatures,
		gainPenalty: penalty,
		rnd:         rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
	}
}

func (t *treeClassifier) penalty(feature int) float64 {
	if t.gainPenalty == nil {
		return 1.0
	}
	return t.gainPenalty[feature]
}

// fit grows the tree on the rows selected by inx. Y holds class ids in
// [0, nClasses); inx may repeat rows (bootstrap sample).
func (t *treeClassifier) fit(X [][]float64, Y []int, inx []int, nClasses int) {
	t.root = &node{samples: len(inx)}
	t.nFeatures = len(X[0])

	maxFeatures := t.maxFeatures
	if maxFeatures < 0 || maxFeatures > t.nFeatures {
		maxFeatures = t.nFeatures
	}

	features := make([]int, t.nFeatures)
	for i := range features {
		features[i] = i
	}

	xBuf := make([]float64, len(inx))

	classCtL := make([]int, nClasses)
	classCtR := make([]int, nClasses)
	classCtZero := make([]int, nClasses)

	var s stack
	s.Push(&stackNode{node: t.root, inx: inx})

	for !s.Empty() {
		w := s.Pop()
		n := w.node

		n.classCounts = make([]int, nClasses)
		for _, i := range w.inx {
			n.classCounts[Y[i]]++
		}

		n.impurity = gini(len(w.inx), n.classCounts)

		if len(w.inx) < t.minSplit ||
			len(w.inx) < 2*t.minLeaf ||
			(t.maxDepth > 0 && w.depth == t.maxDepth) ||
			n.impurity <= 1e-7 {
			n.leaf = true
			continue
		}

		var (
			dBest float64 // best penalized improvement
			vBest float64 // best threshold
			xBest int     // best split var
			iBest = -1    // left = w.inx[:iBest], right = w.inx[iBest:]
		)

		// sample maxFeatures candidates with a partial Fisher-Yates shuffle,
		// drawing extra candidates for each constant feature encountered
		j := t.nFeatures - 1
		visited := 0
		nDrawnConstant := 0
		for j > 0 && (visited < maxFeatures || visited <= nDrawnConstant) {
			k := t.rnd.IntN(j + 1)
			currentFeature := features[k]
			features[k], features[j] = features[j], features[k]

			j--
			visited++

			if len(w.constantFeatures) > 0 && w.constantFeatures[currentFeature] {
				nDrawnConstant++
				continue
			}

			for i, id := range w.inx {
				xBuf[i] = X[id][currentFeature]
			}
			xt := xBuf[:len(w.inx)]

			sortByValue(xt, w.inx)

			if xt[len(xt)-1] <= xt[0]+1e-7 {
				nDrawnConstant++
				c := make([]bool, t.nFeatures)
				copy(c, w.constantFeatures)
				c[currentFeature] = true
				w.constantFeatures = c
				continue
			}

			copy(classCtL, classCtZero)
			copy(classCtR, n.classCounts)

			v, d, pos := t.bestThreshold(xt, Y, w.inx, n.impurity, classCtL, classCtR)

			// weight the raw gain by the feature's penalty before comparing
			// against the other candidates and the no-split baseline
			d *= t.penalty(currentFeature)

			if d > dBest {
				dBest = d
				vBest = v
				xBest = currentFeature
				iBest = pos
			}
		}

		// the penalized gain must still beat doing nothing
		if iBest > 0 && dBest > 1e-7 {
			// partition w.inx into left/right
			i := 0
			j := len(w.inx)

			for i < j {
				if X[w.inx[i]][xBest] < vBest {
					i++
				} else {
					j--
					w.inx[j], w.inx[i] = w.inx[i], w.inx[j]
				}
			}

			l, r := w.inx[:iBest], w.inx[iBest:]

			n.left = &node{samples: len(l)}
			n.right = &node{samples: len(r)}
			n.splitVar = xBest
			n.splitVal = vBest

			s.Push(&stackNode{node: n.left, depth: w.depth + 1, inx: l, constantFeatures: w.constantFeatures})
			s.Push(&stackNode{node: n.right, depth: w.depth + 1, inx: r, constantFeatures: w.constantFeatures})
		} else {
			n.leaf = true
		}
	}
}

// bestThreshold scans the sorted feature values xi for the threshold with the
// largest raw impurity decrease. classCtL must be zeroed and classCtR must
// hold the node's class counts on entry; both are mutated.
func (t *treeClassifier) bestThreshold(xi []float64, y []int, inx []int, dInit float64,
	classCtL, classCtR []int) (float64, float64, int) {

	var (
		dBest, vBest, v, d float64
		pos                = -1
	)

	n := len(xi)
	nLeft := 0
	nRight := n

	var lastCtr int // last time the counters were incremented

	for i := 1; i < n; i++ {
		if xi[i] <= xi[i-1]+1e-7 {
			continue // can't split when x_i == x_i+1
		}

		for j := lastCtr; j < i; j++ {
			yVal := y[inx[j]]

			nLeft++
			classCtL[yVal]++
			nRight--
			classCtR[yVal]--
		}
		lastCtr = i

		if t.minLeaf > 0 && (nLeft < t.minLeaf || nRight < t.minLeaf) {
			continue
		}

		v = (xi[i-1] + xi[i]) / 2.0 // candidate threshold

		iR := gini(nRight, classCtR)
		iL := gini(nLeft, classCtL)

		d = dInit - (float64(nLeft)/float64(n))*iL - (float64(nRight)/float64(n))*iR

		if d > dBest {
			dBest = d
			vBest = v
			pos = nLeft
		}
	}
	return vBest, dBest, pos
}

// predictOne walks a single example down to a leaf and returns the majority
// class id of that leaf.
func (t *treeClassifier) predictOne(x []float64) int {
	n := t.root
	for !n.leaf {
		if x[n.splitVar] > n.splitVal {
			n = n.right
		} else {
			n = n.left
		}
	}

	maxCt := 0
	maxC := 0
	for class, count := range n.classCounts {
		if count > maxCt {
			maxCt = count
			maxC = class
		}
	}
	return maxC
}

// varImp accumulates the mean decrease in impurity per feature, weighted by
// node size and scaled by the number of training samples. Features never used
// for an accepted split keep an importance of exactly zero.
func (t *treeClassifier) varImp() []float64 {
	imp := make([]float64, t.nFeatures)

	var s stack
	s.Push(&stackNode{node: t.root})

	for !s.Empty() {
		n := s.Pop()

		if !n.node.leaf {
			imp[n.node.splitVar] += float64(n.node.samples)*n.node.impurity -
				float64(n.node.right.samples)*n.node.right.impurity -
				float64(n.node.left.samples)*n.node.left.impurity

			s.Push(&stackNode{node: n.node.left})
			s.Push(&stackNode{node: n.node.right})
		}
	}

	nSamples := float64(t.root.samples)
	for i := range imp {
		imp[i] /= nSamples
	}

	return imp
}

// gini impurity
// i_t = sum over k p(c_k|t) (1 - p(c_k|t))
func gini(n int, ct []int) float64 {
	g := 0.0
	for _, c := range ct {
		if c > 0 {
			p := float64(c) / float64(n)
			g += p * p
		}
	}
	return 1.0 - g
}

// sortByValue sorts x ascending, applying the same permutation to inx.
type byValue struct {
	x   []float64
	inx []int
}

func (p byValue) Len() int           { return len(p.x) }
func (p byValue) Less(i, j int) bool { return p.x[i] < p.x[j] }
func (p byValue) Swap(i, j int) {
	p.x[i], p.x[j] = p.x[j], p.x[i]
	p.inx[i], p.inx[j] = p.inx[j], p.inx[i]
}

func sortByValue(x []float64, inx []int) {
	sort.Sort(byValue{x: x, inx: inx})
}

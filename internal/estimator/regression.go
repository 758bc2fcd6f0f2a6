package estimator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"wastewise/internal/dataset"
)

// rankTolerance is scaled by the row count and compared against the
// largest singular value of the standardized design.
const rankTolerance = 2.220446049250313e-16

// FittedModel is an ordinary-least-squares fit over the six features.
// It is never modified after Fit returns.
type FittedModel struct {
	coef      [NumFeatures]float64
	intercept float64
	trainRows int
}

// NewFittedModel builds a model from known coefficients.
func NewFittedModel(coef [NumFeatures]float64, intercept float64) *FittedModel {
	return &FittedModel{coef: coef, intercept: intercept}
}

func (m *FittedModel) Intercept() float64 { return m.intercept }

// Coef returns a copy of the coefficients in FeatureNames order.
func (m *FittedModel) Coef() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, m.coef[:])
	return out
}

// TrainRows is the number of records the model was fitted on.
func (m *FittedModel) TrainRows() int { return m.trainRows }

// Metrics are the held-out accuracy figures of a model.
type Metrics struct {
	MSE float64 `json:"mse"`
	R2  float64 `json:"r2"`
}

// SeriesPoint pairs an observed value with the model output for one day.
type SeriesPoint struct {
	Date      time.Time `json:"date"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// Fit solves the least-squares problem waste_kg ~ intercept + features.
//
// Feature columns are centred and scaled to unit variance before the solve so
// the rank decision does not depend on units. A rank-deficient design (for
// example a flag that never varies in the training rows) gets the
// minimum-norm solution, which leaves a zero coefficient on a constant column.
func Fit(training []dataset.WasteRecord) (*FittedModel, error) {
	n := len(training)
	if n < NumFeatures+1 {
		return nil, fmt.Errorf("%w: %d rows, need at least %d", ErrInsufficientData, n, NumFeatures+1)
	}

	raw := make([][NumFeatures]float64, n)
	y := mat.NewVecDense(n, nil)

	for i, rec := range training {
		raw[i] = FeaturesOf(rec).Values()
		for j, v := range raw[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d has no value for %s", ErrInsufficientData, i, FeatureNames[j])
			}
		}
		if math.IsNaN(rec.WasteKG) || math.IsInf(rec.WasteKG, 0) {
			return nil, fmt.Errorf("%w: row %d has no %s", ErrInsufficientData, i, dataset.ColWasteKG)
		}
		y.SetVec(i, rec.WasteKG)
	}

	var mean, scale [NumFeatures]float64
	for j := 0; j < NumFeatures; j++ {
		for i := range raw {
			mean[j] += raw[i][j]
		}
		mean[j] /= float64(n)
		for i := range raw {
			d := raw[i][j] - mean[j]
			scale[j] += d * d
		}
		scale[j] = math.Sqrt(scale[j] / float64(n))
	}

	x := mat.NewDense(n, NumFeatures+1, nil)
	for i := range raw {
		x.Set(i, 0, 1)
		for j := 0; j < NumFeatures; j++ {
			// constant columns stay zero
			if scale[j] > 0 {
				x.Set(i, j+1, (raw[i][j]-mean[j])/scale[j])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, fmt.Errorf("%w: singular value decomposition failed", ErrInsufficientData)
	}
	rank := svd.Rank(rankTolerance * float64(n))

	var beta mat.VecDense
	svd.SolveVecTo(&beta, y, rank)

	model := &FittedModel{intercept: beta.AtVec(0), trainRows: n}
	for j := 0; j < NumFeatures; j++ {
		if scale[j] == 0 {
			continue
		}
		model.coef[j] = beta.AtVec(j+1) / scale[j]
		model.intercept -= model.coef[j] * mean[j]
	}
	return model, nil
}

// Predict returns intercept + coef · features.
func Predict(model *FittedModel, features FeatureVector) float64 {
	prediction := model.intercept
	for j, v := range features.Values() {
		prediction += model.coef[j] * v
	}
	return prediction
}

// PredictBatch predicts every record, keeping input order.
func PredictBatch(model *FittedModel, records []dataset.WasteRecord) []float64 {
	predictions := make([]float64, len(records))
	for i, rec := range records {
		predictions[i] = Predict(model, FeaturesOf(rec))
	}
	return predictions
}

// Evaluate scores the model on a held-out set.
func Evaluate(model *FittedModel, test []dataset.WasteRecord) (Metrics, error) {
	if len(test) == 0 {
		return Metrics{}, fmt.Errorf("%w: empty test set", ErrUndefinedMetric)
	}

	predictions := PredictBatch(model, test)

	meanActual := 0.0
	for _, rec := range test {
		meanActual += rec.WasteKG
	}
	meanActual /= float64(len(test))

	ssRes, ssTot := 0.0, 0.0
	for i, rec := range test {
		residual := rec.WasteKG - predictions[i]
		ssRes += residual * residual
		deviation := rec.WasteKG - meanActual
		ssTot += deviation * deviation
	}

	if ssTot == 0 {
		return Metrics{}, fmt.Errorf("%w: test set has zero variance", ErrUndefinedMetric)
	}

	return Metrics{
		MSE: ssRes / float64(len(test)),
		R2:  1 - ssRes/ssTot,
	}, nil
}

// ActualVsPredicted pairs each record's observed waste with the model output.
func ActualVsPredicted(model *FittedModel, records []dataset.WasteRecord) []SeriesPoint {
	predictions := PredictBatch(model, records)

	series := make([]SeriesPoint, len(records))
	for i, rec := range records {
		series[i] = SeriesPoint{Date: rec.Date, Actual: rec.WasteKG, Predicted: predictions[i]}
	}
	return series
}

const (
	DefaultTestRatio = 0.2
	DefaultSplitSeed = 42
)

// Split shuffles record indices with a fixed seed and holds out
// ceil(n*testRatio) of them. Both halves keep dataset order.
func Split(records []dataset.WasteRecord, testRatio float64, seed int64) (train, test []dataset.WasteRecord) {
	n := len(records)
	if n == 0 {
		return nil, nil
	}

	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest < 0 {
		nTest = 0
	}
	if nTest > n {
		nTest = n
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testIdx := append([]int(nil), perm[:nTest]...)
	trainIdx := append([]int(nil), perm[nTest:]...)
	sort.Ints(testIdx)
	sort.Ints(trainIdx)

	train = make([]dataset.WasteRecord, 0, len(trainIdx))
	for _, i := range trainIdx {
		train = append(train, records[i])
	}
	test = make([]dataset.WasteRecord, 0, len(testIdx))
	for _, i := range testIdx {
		test = append(test, records[i])
	}
	return train, test
}

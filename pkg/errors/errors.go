// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// ゲインペナルティ特徴量選択パイプラインのための、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("gainpen-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、DegenerateRelevanceError などの回復可能な警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	選択パイプライン固有のエラー型
//
// ===========================================================================

// DegenerateRelevanceError は全特徴量の関連度スコアがゼロで正規化できない場合のエラーです。
// 呼び出し側は λ₀ の定数ベクトルで回復できます（致命的ではありません）。
type DegenerateRelevanceError struct {
	Source      string // 関連度の算出元（例: "importance", "mutual_info"）
	NumFeatures int
}

func (e *DegenerateRelevanceError) Error() string {
	return fmt.Sprintf("gainpen: relevance from %s is degenerate: all %d scores are zero", e.Source, e.NumFeatures)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateRelevanceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("num_features", e.NumFeatures).
		Str("type", "DegenerateRelevanceError")
}

// NewDegenerateRelevanceError は新しいDegenerateRelevanceErrorを作成し、スタックトレースを付与します。
func NewDegenerateRelevanceError(source string, numFeatures int) error {
	err := &DegenerateRelevanceError{Source: source, NumFeatures: numFeatures}
	return errors.WithStack(err)
}

// InvalidHyperparameterError はハイパーパラメータが有効範囲外の場合のエラーです。
// 例えば、subsampling fraction が1特徴量未満になる場合など。
// スイープの該当要素のみ失敗し、スイープ全体は継続します。
type InvalidHyperparameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidHyperparameterError) Error() string {
	return fmt.Sprintf("gainpen: invalid hyperparameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidHyperparameterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Float64("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "InvalidHyperparameterError")
}

// NewInvalidHyperparameterError は新しいInvalidHyperparameterErrorを作成し、スタックトレースを付与します。
func NewInvalidHyperparameterError(param string, value float64, reason string) error {
	err := &InvalidHyperparameterError{Param: param, Value: value, Reason: reason}
	return errors.WithStack(err)
}

// EmptyFeatureSetError はペナルティ付きモデルが特徴量を一つも選択しなかった場合のエラーです。
// 再評価ステップの該当要素のみ失敗します。
type EmptyFeatureSetError struct {
	Fold int
}

func (e *EmptyFeatureSetError) Error() string {
	return fmt.Sprintf("gainpen: model on fold %d selected an empty feature set", e.Fold)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EmptyFeatureSetError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("fold", e.Fold).
		Str("type", "EmptyFeatureSetError")
}

// NewEmptyFeatureSetError は新しいEmptyFeatureSetErrorを作成し、スタックトレースを付与します。
func NewEmptyFeatureSetError(fold int) error {
	err := &EmptyFeatureSetError{Fold: fold}
	return errors.WithStack(err)
}

// InsufficientFeaturesError は最終集約ステップで出現回数が非ゼロの特徴量が
// 要求数Fに満たない場合のエラーです。呼び出し側に必ず伝搬します。
type InsufficientFeaturesError struct {
	Requested int
	Available int
}

func (e *InsufficientFeaturesError) Error() string {
	return fmt.Sprintf("gainpen: final feature tally has only %d features with nonzero counts, %d requested", e.Available, e.Requested)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientFeaturesError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("requested", e.Requested).
		Int("available", e.Available).
		Str("type", "InsufficientFeaturesError")
}

// NewInsufficientFeaturesError は新しいInsufficientFeaturesErrorを作成し、スタックトレースを付与します。
func NewInsufficientFeaturesError(requested, available int) error {
	err := &InsufficientFeaturesError{Requested: requested, Available: available}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	汎用の構造化エラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` 等を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("gainpen: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("gainpen: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gainpen: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gainpen: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrNotBinary はターゲットが2クラスでない場合のエラーです。
	ErrNotBinary = New("target must have exactly two classes")
)

package llist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/containers"
	"github.com/emirpasic/gods/utils"

	"rwlist/internal/events"
	"rwlist/internal/logger"
)

var (
	// ErrInvalidConfig は不正な設定でリストを作成しようとした場合のエラー
	ErrInvalidConfig = errors.New("llist: invalid config")
	// ErrFull は MaxLen に達したリストへ新規ノードを追加しようとした場合のエラー
	ErrFull = errors.New("llist: list is full")
	// ErrOutOfOrder はインデックスの昇順が崩れている場合のエラー
	ErrOutOfOrder = errors.New("llist: nodes out of order")
	// ErrDuplicateIndex は JSON 入力に同じインデックスが複数ある場合のエラー
	ErrDuplicateIndex = errors.New("llist: duplicate index")
)

// Releaser はリストが所有権を手放す際に解放されるペイロード。
// Release はロック解放後に呼ばれるため、リストを操作してもよい
type Releaser interface {
	Release()
}

// Ensure List implements the gods container and JSON interfaces
var (
	_ containers.Container        = (*List)(nil)
	_ containers.JSONSerializer   = (*List)(nil)
	_ containers.JSONDeserializer = (*List)(nil)
)

// node はリストの要素。next を通じて後続ノードを所有する
type node struct {
	index   int
	payload any
	next    *node
}

// Config はリストの設定
type Config struct {
	Name   string // ログとイベントに使う名前
	MaxLen int    // 最大要素数（0で無制限）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Name:   "llist",
		MaxLen: 0,
	}
}

// List はインデックス昇順の単方向リスト。
// 単一の RWMutex が head と全ノードのフィールドを保護する。
// ゼロ値は無制限の空リストとしてそのまま使える。
type List struct {
	mu   sync.RWMutex
	head *node

	name   string
	maxLen int
	log    atomic.Pointer[logger.Logger]
	bus    *events.Bus
}

// New は新しいリストを作成する
func New(cfg Config) (*List, error) {
	if cfg.MaxLen < 0 {
		return nil, fmt.Errorf("%w: max_len must be non-negative, got %d", ErrInvalidConfig, cfg.MaxLen)
	}
	return &List{
		name:   cfg.Name,
		maxLen: cfg.MaxLen,
	}, nil
}

// Name はリスト名を返す
func (l *List) Name() string {
	return l.name
}

// SetLogger はトレース出力先のロガーを設定する
func (l *List) SetLogger(lg *logger.Logger) {
	l.log.Store(lg)
}

// SetEventBus は変更イベントの発行先を設定する
func (l *List) SetEventBus(bus *events.Bus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bus = bus
}

// tracer は設定済みのロガー、未設定ならデフォルトを返す
func (l *List) tracer() *logger.Logger {
	if lg := l.log.Load(); lg != nil {
		return lg
	}
	return logger.Default
}

// publish はイベントを発行する。排他ロック保持中に呼ぶ
func (l *List) publish(e events.Event) {
	if l.bus != nil {
		l.bus.Publish(e)
	}
}

// lenLocked はノード数を数える。ロック保持中に呼ぶ
func (l *List) lenLocked() int {
	n := 0
	for cur := l.head; cur != nil; cur = cur.next {
		n++
	}
	return n
}

// InsertOrReplace は index のノードがあればペイロードを差し替え、
// なければ昇順を保つ位置に新しいノードを挿入する。
// 古いペイロードが Releaser なら、ロック解放後に解放する。
// 同じ値を入れ直した場合は解放しない。
func (l *List) InsertOrReplace(index int, payload any) error {
	old, replaced, err := l.insertOrReplace(index, payload)
	if replaced && !samePayload(old, payload) {
		release(old)
	}
	return err
}

func (l *List) insertOrReplace(index int, payload any) (old any, replaced bool, err error) {
	l.tracer().Debug(l.name, "InsertOrReplace(%d): before lock", index)

	l.mu.Lock()
	defer l.mu.Unlock()

	var prev *node
	cur := l.head
	for cur != nil && cur.index < index {
		prev, cur = cur, cur.next
	}

	found := cur != nil && cur.index == index
	l.tracer().Debug(l.name, "InsertOrReplace(%d): found = %v", index, found)

	if found {
		old = cur.payload
		cur.payload = payload
		l.publish(events.NewReplacedEvent(l.name, index))
		return old, true, nil
	}

	if l.maxLen > 0 && l.lenLocked() >= l.maxLen {
		l.tracer().Warn(l.name, "InsertOrReplace(%d): rejected, list holds %d nodes", index, l.maxLen)
		return nil, false, fmt.Errorf("insert index %d: %w", index, ErrFull)
	}

	n := &node{index: index, payload: payload, next: cur}
	if prev == nil {
		l.head = n
	} else {
		prev.next = n
	}
	l.publish(events.NewInsertedEvent(l.name, index))
	return nil, false, nil
}

// Remove は index のノードを取り外し、ペイロードの所有権を呼び出し元に渡す
func (l *List) Remove(index int) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var prev *node
	cur := l.head
	for cur != nil && cur.index < index {
		prev, cur = cur, cur.next
	}
	if cur == nil || cur.index != index {
		l.tracer().Debug(l.name, "Remove(%d): not found", index)
		return nil, false
	}

	if prev == nil {
		l.head = cur.next
	} else {
		prev.next = cur.next
	}
	payload := cur.payload
	cur.next, cur.payload = nil, nil

	l.publish(events.NewRemovedEvent(l.name, index))
	return payload, true
}

// findLocked は index のノードを返す。ロック保持中に呼ぶ
func (l *List) findLocked(index int) *node {
	for cur := l.head; cur != nil && cur.index <= index; cur = cur.next {
		if cur.index == index {
			return cur
		}
	}
	return nil
}

// Find は index のペイロードを返す。所有権はリストに残る
func (l *List) Find(index int) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n := l.findLocked(index); n != nil {
		return n.payload, true
	}
	return nil, false
}

// View は共有ロックを保持したまま index のペイロードを fn に渡す。
// fn からリストを変更してはならない。
func (l *List) View(index int, fn func(payload any)) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.findLocked(index)
	if n == nil {
		return false
	}
	fn(n.payload)
	return true
}

// Replace は index のノードのペイロードをその場で差し替え、
// 古いペイロードを呼び出し元に返す。ノードは取り外さない。
func (l *List) Replace(index int, payload any) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.findLocked(index)
	if n == nil {
		return nil, false
	}
	old := n.payload
	n.payload = payload

	l.publish(events.NewUpdatedEvent(l.name, index))
	return old, true
}

// Count は要素数を返す。サイズはキャッシュせず毎回走査する
func (l *List) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lenLocked()
}

// NextIndex は index の次の要素のインデックスを返す。
// index が存在しない、または末尾の場合は false
func (l *List) NextIndex(index int) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.findLocked(index)
	if n == nil || n.next == nil {
		return 0, false
	}
	return n.next.index, true
}

// Show は全要素を昇順で w に書き出す
func (l *List) Show(w io.Writer) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := fmt.Fprintln(w, "===== Linked list contains: ====="); err != nil {
		return err
	}
	for cur := l.head; cur != nil; cur = cur.next {
		if _, err := fmt.Fprintf(w, "Index: %d\tData: %v\n", cur.index, cur.payload); err != nil {
			return err
		}
	}
	return nil
}

// Range は共有ロックを保持したまま昇順に fn を呼ぶ。fn が false を返すと停止する。
// fn からリストを変更してはならない。
func (l *List) Range(fn func(index int, payload any) bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for cur := l.head; cur != nil; cur = cur.next {
		if !fn(cur.index, cur.payload) {
			return
		}
	}
}

// Keys は全インデックスを昇順で返す
func (l *List) Keys() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]int, 0, l.lenLocked())
	for cur := l.head; cur != nil; cur = cur.next {
		keys = append(keys, cur.index)
	}
	return keys
}

// Check は昇順かつ重複なしの不変条件を検証する
func (l *List) Check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for cur := l.head; cur != nil && cur.next != nil; cur = cur.next {
		if utils.IntComparator(cur.index, cur.next.index) >= 0 {
			return fmt.Errorf("%w: %d followed by %d", ErrOutOfOrder, cur.index, cur.next.index)
		}
	}
	return nil
}

// Empty は要素がなければ true を返す
func (l *List) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.head == nil
}

// Size は Count と同じ
func (l *List) Size() int {
	return l.Count()
}

// Values は全ペイロードを昇順で返す
func (l *List) Values() []interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	values := make([]interface{}, 0, l.lenLocked())
	for cur := l.head; cur != nil; cur = cur.next {
		values = append(values, cur.payload)
	}
	return values
}

// Clear は全ノードを破棄し、ロック解放後に Releaser のペイロードを解放する
func (l *List) Clear() {
	for _, p := range l.detachAll(nil) {
		release(p)
	}
}

// detachAll は全ノードを取り外して head を next に差し替え、
// 取り外したペイロードを返す
func (l *List) detachAll(next *node) []any {
	l.mu.Lock()
	defer l.mu.Unlock()

	var dropped []any
	for cur := l.head; cur != nil; {
		n := cur.next
		dropped = append(dropped, cur.payload)
		cur.next, cur.payload = nil, nil
		cur = n
	}
	l.head = next

	l.tracer().Debug(l.name, "Clear: dropped %d nodes", len(dropped))
	l.publish(events.NewClearedEvent(l.name, len(dropped)))
	for cur := next; cur != nil; cur = cur.next {
		l.publish(events.NewInsertedEvent(l.name, cur.index))
	}
	return dropped
}

// entry は JSON 上の1要素
type entry struct {
	Index int `json:"index"`
	Data  any `json:"data"`
}

// ToJSON は全要素を昇順の [{"index":i,"data":payload}, ...] として出力する
func (l *List) ToJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]entry, 0, l.lenLocked())
	for cur := l.head; cur != nil; cur = cur.next {
		entries = append(entries, entry{Index: cur.index, Data: cur.payload})
	}
	return json.Marshal(entries)
}

// FromJSON はリストの内容を ToJSON 形式の data で置き換える。
// 入力の順序は問わない。重複インデックスや MaxLen 超過はエラーで、リストは変更しない
func (l *List) FromJSON(data []byte) error {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("llist: decode: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return utils.IntComparator(entries[i].Index, entries[j].Index) < 0
	})
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Index == entries[i].Index {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, entries[i].Index)
		}
	}
	if l.maxLen > 0 && len(entries) > l.maxLen {
		return fmt.Errorf("load %d entries: %w", len(entries), ErrFull)
	}

	var head *node
	for i := len(entries) - 1; i >= 0; i-- {
		head = &node{index: entries[i].Index, payload: entries[i].Data, next: head}
	}
	for _, p := range l.detachAll(head) {
		release(p)
	}
	return nil
}

// MarshalJSON は json.Marshaler を実装する
func (l *List) MarshalJSON() ([]byte, error) {
	return l.ToJSON()
}

// UnmarshalJSON は json.Unmarshaler を実装する
func (l *List) UnmarshalJSON(data []byte) error {
	return l.FromJSON(data)
}

// String は "LinkedList\n1:y, 3:x" 形式の表現を返す
func (l *List) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var b strings.Builder
	b.WriteString("LinkedList\n")
	for cur := l.head; cur != nil; cur = cur.next {
		if cur != l.head {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d:%v", cur.index, cur.payload)
	}
	return b.String()
}

// samePayload は a と b が同一の Releaser かを返す。比較できない型は別物として扱う
func samePayload(a, b any) bool {
	ra, ok := a.(Releaser)
	if !ok {
		return false
	}
	rb, ok := b.(Releaser)
	if !ok {
		return false
	}
	t := reflect.TypeOf(ra)
	if t != reflect.TypeOf(rb) || !t.Comparable() {
		return false
	}
	return ra == rb
}

func release(payload any) {
	if r, ok := payload.(Releaser); ok {
		r.Release()
	}
}

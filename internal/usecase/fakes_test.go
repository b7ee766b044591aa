package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"app/internal/domain/model"
	"app/internal/event"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// =====================
// インメモリのRepository実装
// =====================

// テスト用のインメモリストア。
// トランザクションはスナップショット＋巻き戻しで再現する。
type memStore struct {
	mu         sync.Mutex
	carts      map[uuid.UUID]model.Cart
	cartItems  map[int64]model.CartItem
	products   map[int64]model.Product
	customers  map[int64]model.Customer
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	auditLogs  []model.AuditLog
	seq        int64

	// 2件目の注文明細書き込みで失敗させる（ロールバック検証用）
	failSecondOrderItem bool
}

func newMemStore() *memStore {
	return &memStore{
		carts:      map[uuid.UUID]model.Cart{},
		cartItems:  map[int64]model.CartItem{},
		products:   map[int64]model.Product{},
		customers:  map[int64]model.Customer{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
	}
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

type memSnapshot struct {
	carts      map[uuid.UUID]model.Cart
	cartItems  map[int64]model.CartItem
	products   map[int64]model.Product
	customers  map[int64]model.Customer
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	auditLogs  []model.AuditLog
	seq        int64
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		carts:      copyMap(s.carts),
		cartItems:  copyMap(s.cartItems),
		products:   copyMap(s.products),
		customers:  copyMap(s.customers),
		orders:     copyMap(s.orders),
		orderItems: copyMap(s.orderItems),
		auditLogs:  append([]model.AuditLog{}, s.auditLogs...),
		seq:        s.seq,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.products = snap.products
	s.customers = snap.customers
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.auditLogs = snap.auditLogs
	s.seq = snap.seq
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// 全Repositoryインターフェースをまとめて実装する。
// lockingありはusecaseが直接使う版、なしはトランザクション内で使う版
// （トランザクション中はmemTxManagerがロックを握っている）。
type memRepos struct {
	s       *memStore
	locking bool
}

func (r *memRepos) enter() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// --- CartRepository ---

func (r *memRepos) Create(ctx context.Context) (model.Cart, error) {
	defer r.enter()()
	id, err := uuid.NewV7()
	if err != nil {
		return model.Cart{}, err
	}
	cart := model.Cart{ID: id}
	r.s.carts[id] = cart
	return cart, nil
}

func (r *memRepos) FindByID(ctx context.Context, cartID uuid.UUID) (model.Cart, error) {
	defer r.enter()()
	cart, ok := r.s.carts[cartID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return cart, nil
}

func (r *memRepos) FindByIDForUpdate(ctx context.Context, cartID uuid.UUID) (model.Cart, error) {
	return r.FindByID(ctx, cartID)
}

func (r *memRepos) Delete(ctx context.Context, cartID uuid.UUID) error {
	defer r.enter()()
	if _, ok := r.s.carts[cartID]; !ok {
		return repo.ErrNotFound
	}
	for id, it := range r.s.cartItems {
		if it.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	delete(r.s.carts, cartID)
	return nil
}

// --- CartItemRepository ---

func (r *memRepos) ListByCartID(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	defer r.enter()()
	items := []model.CartItem{}
	for _, it := range r.s.cartItems {
		if it.CartID == cartID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memRepos) UpsertByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64, addQty int64) (model.CartItem, error) {
	defer r.enter()()
	if addQty <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}
	for id, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity += addQty
			r.s.cartItems[id] = it
			return it, nil
		}
	}
	item := model.CartItem{
		ID:        r.s.nextID(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  addQty,
	}
	r.s.cartItems[item.ID] = item
	return item, nil
}

func (r *memRepos) UpdateQuantity(ctx context.Context, cartID uuid.UUID, productID int64, qty int64) (model.CartItem, error) {
	defer r.enter()()
	for id, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity = qty
			r.s.cartItems[id] = it
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *memRepos) DeleteByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64) error {
	defer r.enter()()
	for id, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

func (r *memRepos) DeleteByCartID(ctx context.Context, cartID uuid.UUID) error {
	defer r.enter()()
	for id, it := range r.s.cartItems {
		if it.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

// --- ProductRepository ---

func (r *memRepos) FindProductByID(ctx context.Context, id int64) (model.Product, error) {
	defer r.enter()()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

// --- CustomerRepository ---

func (r *memRepos) FindCustomerByID(ctx context.Context, customerID int64) (model.Customer, error) {
	defer r.enter()()
	c, ok := r.s.customers[customerID]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *memRepos) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	defer r.enter()()
	for _, c := range r.s.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return model.Customer{}, repo.ErrNotFound
}

// --- OrderRepository ---

func (r *memRepos) FindOrderByID(ctx context.Context, orderID int64) (model.Order, error) {
	defer r.enter()()
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *memRepos) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	defer r.enter()()
	orders := []model.Order{}
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	total := int64(len(orders))

	offset := (page - 1) * limit
	if offset >= len(orders) {
		return []model.Order{}, total, nil
	}
	orders = orders[offset:]
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, total, nil
}

func (r *memRepos) CreateOrder(ctx context.Context, order model.Order) (int64, error) {
	defer r.enter()()
	order.ID = r.s.nextID()
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r *memRepos) UpdateStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	defer r.enter()()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.PaymentStatus = status
	r.s.orders[orderID] = o
	return nil
}

func (r *memRepos) DeleteOrder(ctx context.Context, orderID int64) error {
	defer r.enter()()
	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, orderID)
	return nil
}

func (r *memRepos) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	defer r.enter()()
	orders := []model.Order{}
	for _, o := range r.s.orders {
		if f.Status != "" && string(o.PaymentStatus) != f.Status {
			continue
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, int64(len(orders)), nil
}

// --- OrderItemRepository ---

func (r *memRepos) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	defer r.enter()()
	for i, it := range items {
		if r.s.failSecondOrderItem && i == 1 {
			//1件目は書けた後に落ちる（部分書き込みの巻き戻し確認用）
			return errors.New("storage fault")
		}
		it.OrderID = orderID
		it.ID = r.s.nextID()
		r.s.orderItems[it.ID] = it
	}
	return nil
}

func (r *memRepos) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	defer r.enter()()
	items := []model.OrderItem{}
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memRepos) DeleteByOrderID(ctx context.Context, orderID int64) error {
	defer r.enter()()
	for id, it := range r.s.orderItems {
		if it.OrderID == orderID {
			delete(r.s.orderItems, id)
		}
	}
	return nil
}

// --- AuditLogRepository ---

func (r *memRepos) CreateAuditLog(ctx context.Context, log model.AuditLog) error {
	defer r.enter()()
	log.ID = r.s.nextID()
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (r *memRepos) ListAuditLogsByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64, limit int) ([]model.AuditLog, error) {
	defer r.enter()()
	logs := []model.AuditLog{}
	for _, l := range r.s.auditLogs {
		if l.ResourceType != resourceType || l.ResourceID != resourceID {
			continue
		}
		logs = append(logs, l)
	}
	//新しい順
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// メソッド名の衝突を外すための薄いアダプタ。
// memReposは中身を1か所に持ち、各repoインターフェースはこの別名越しに満たす。
type memCartRepo struct{ *memRepos }
type memProductRepo struct{ *memRepos }
type memCustomerRepo struct{ *memRepos }
type memOrderRepo struct{ *memRepos }
type memAuditLogRepo struct{ *memRepos }

func (r memProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	return r.FindProductByID(ctx, id)
}

func (r memCustomerRepo) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	return r.FindCustomerByID(ctx, customerID)
}

func (r memOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	return r.FindOrderByID(ctx, orderID)
}

func (r memOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	return r.CreateOrder(ctx, order)
}

func (r memOrderRepo) Delete(ctx context.Context, orderID int64) error {
	return r.DeleteOrder(ctx, orderID)
}

func (r memAuditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	return r.CreateAuditLog(ctx, log)
}

func (r memAuditLogRepo) ListByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64, limit int) ([]model.AuditLog, error) {
	return r.ListAuditLogsByResource(ctx, resourceType, resourceID, limit)
}

// =====================
// TxManager / TxRepos fakes
// =====================

type memTxRepos struct {
	r *memRepos
}

func (t *memTxRepos) Orders() repo.OrderRepository         { return memOrderRepo{t.r} }
func (t *memTxRepos) OrderItems() repo.OrderItemRepository { return t.r }
func (t *memTxRepos) Carts() repo.CartRepository           { return memCartRepo{t.r} }
func (t *memTxRepos) CartItems() repo.CartItemRepository   { return t.r }
func (t *memTxRepos) Products() repo.ProductRepository     { return memProductRepo{t.r} }
func (t *memTxRepos) Customers() repo.CustomerRepository   { return memCustomerRepo{t.r} }
func (t *memTxRepos) AuditLogs() repo.AuditLogRepository   { return memAuditLogRepo{t.r} }

// fnがerrorを返したらスナップショットに巻き戻す。
// ロックをトランザクション全体で握るので直列化もここで再現される。
type memTxManager struct {
	s *memStore
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snap := m.s.snapshot()
	r := &memTxRepos{r: &memRepos{s: m.s, locking: false}}

	if err := fn(r); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// =====================
// Publisher fake
// =====================

type capturePublisher struct {
	mu     sync.Mutex
	events []event.OrderCreated
	fail   bool
}

func (p *capturePublisher) PublishOrderCreated(ctx context.Context, ev event.OrderCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// =====================
// テスト環境の組み立て
// =====================

type testEnv struct {
	store     *memStore
	direct    *memRepos
	txm       *memTxManager
	publisher *capturePublisher
	cartUC    *CartUsecase
	orderUC   *OrderUsecase
	adminUC   *AdminOrderUsecase
}

func newTestEnv() *testEnv {
	store := newMemStore()
	direct := &memRepos{s: store, locking: true}
	txm := &memTxManager{s: store}
	publisher := &capturePublisher{}

	cartUC := NewCartUsecase(memCartRepo{direct}, direct, memProductRepo{direct})
	orderUC := NewOrderUsecase(txm, memCustomerRepo{direct}, publisher, zerolog.Nop())
	adminUC := NewAdminOrderUsecase(txm)

	return &testEnv{
		store:     store,
		direct:    direct,
		txm:       txm,
		publisher: publisher,
		cartUC:    cartUC,
		orderUC:   orderUC,
		adminUC:   adminUC,
	}
}

func (e *testEnv) addProduct(id int64, title string, price string, inventory int64) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.products[id] = model.Product{
		ID:        id,
		Title:     title,
		UnitPrice: decimal.RequireFromString(price),
		Inventory: inventory,
	}
}

func (e *testEnv) setProductPrice(id int64, price string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	p := e.store.products[id]
	p.UnitPrice = decimal.RequireFromString(price)
	e.store.products[id] = p
}

func (e *testEnv) addCustomer(id int64, userID int64) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.customers[id] = model.Customer{ID: id, UserID: userID, Membership: model.MembershipBronze}
}

func (e *testEnv) newCartWith(items map[int64]int64) uuid.UUID {
	cart, _ := memCartRepo{e.direct}.Create(context.Background())
	for productID, qty := range items {
		_, _ = e.direct.UpsertByCartAndProduct(context.Background(), cart.ID, productID, qty)
	}
	return cart.ID
}

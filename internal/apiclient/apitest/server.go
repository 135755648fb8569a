// Package apitest runs an in-memory stand-in for the CRM REST API.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/domain/models"
)

const APIKey = "test-api-key"

type table[T any] struct {
	order []string
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rows[k])
	}
	return out
}

type user struct {
	password string
	name     string
}

// Server is a fake CRM API. Zero state is empty; seed with the Add helpers.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	seq       int
	failWith  int
	calls     map[string]int
	users     map[string]user
	customers *table[models.Customer]
	cards     *table[models.Card]
	trips     *table[models.Trip]
	cases     *table[models.Case]
	taps      *table[models.TapHistory]
	disputes  *table[models.FareDispute]
}

func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		calls:     map[string]int{},
		users:     map[string]user{},
		customers: newTable[models.Customer](),
		cards:     newTable[models.Card](),
		trips:     newTable[models.Trip](),
		cases:     newTable[models.Case](),
		taps:      newTable[models.TapHistory](),
		disputes:  newTable[models.FareDispute](),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// FailWith makes every following request answer status; 0 restores normal service.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Calls returns how often "METHOD /path" was hit.
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *Server) AddUser(email, password, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{password: password, name: name}
}

func (s *Server) AddCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers.put(c.ID, c)
}

func (s *Server) AddCard(c models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards.put(c.ID, c)
}

func (s *Server) AddTrip(t models.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips.put(t.ID, t)
}

func (s *Server) AddCase(c models.Case) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases.put(c.ID, c)
}

func (s *Server) AddTap(t models.TapHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taps.put(t.ID, t)
}

func (s *Server) AddDispute(d models.FareDispute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		s.seq++
		d.ID = s.seq
	}
	s.disputes.put(strconv.Itoa(d.ID), d)
}

func (s *Server) Card(id string) (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards.rows[id]
	return c, ok
}

func (s *Server) Customer(id string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers.rows[id]
	return c, ok
}

func (s *Server) Trip(id string) (models.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips.rows[id]
	return t, ok
}

func (s *Server) Tap(id string) (models.TapHistory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.taps.rows[id]
	return t, ok
}

func (s *Server) CaseList() []models.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cases.list()
}

func (s *Server) DisputeList() []models.FareDispute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disputes.list()
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.mu.Lock()
		s.calls[c.Request.Method+" "+c.Request.URL.Path]++
		fail := s.failWith
		s.mu.Unlock()
		if c.GetHeader("x-api-key") != APIKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Invalid API key"})
			return
		}
		if fail != 0 {
			c.AbortWithStatusJSON(fail, gin.H{"detail": "forced failure"})
			return
		}
		c.Next()
	})

	r.POST("/auth/signup", s.signup)
	r.POST("/auth/login", s.login)

	crud(r, "/customers", s, s.customers, func(c *models.Customer) *string { return &c.ID }, "CU")
	crud(r, "/cards", s, s.cards, func(c *models.Card) *string { return &c.ID }, "")
	crud(r, "/trips", s, s.trips, func(t *models.Trip) *string { return &t.ID }, "T")
	crud(r, "/cases", s, s.cases, func(c *models.Case) *string { return &c.ID }, "CASE")

	r.GET("/tap-history/", s.listTaps)
	r.PUT("/tap-history/:id", s.updateTap)

	r.GET("/fare-disputes/", s.listDisputes)
	r.POST("/fare-disputes/", s.createDispute)
	r.PUT("/fare-disputes/:id", s.updateDispute)
	r.DELETE("/fare-disputes/:id", s.deleteDispute)
	return r
}

func (s *Server) signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid signup"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.Email]; ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	s.users[req.Email] = user{password: req.Password, name: req.Name}
	c.JSON(http.StatusOK, models.AuthResponse{AccessToken: "tok-" + req.Email, TokenType: "bearer", UserName: req.Name})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid login"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok || u.password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{AccessToken: "tok-" + req.Email, TokenType: "bearer", UserName: u.name})
}

func crud[T any](r *gin.Engine, base string, s *Server, tbl *table[T], idOf func(*T) *string, prefix string) {
	r.GET(base+"/", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, tbl.list())
	})
	r.GET(base+"/:id", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		v, ok := tbl.rows[c.Param("id")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
			return
		}
		c.JSON(http.StatusOK, v)
	})
	r.POST(base+"/", func(c *gin.Context) {
		var v T
		if err := c.ShouldBindJSON(&v); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		id := idOf(&v)
		if *id == "" {
			*id = s.nextID(prefix)
		}
		if _, exists := tbl.rows[*id]; exists {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "already exists"})
			return
		}
		tbl.put(*id, v)
		c.JSON(http.StatusOK, v)
	})
	r.PUT(base+"/:id", func(c *gin.Context) {
		var v T
		if err := c.ShouldBindJSON(&v); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		id := c.Param("id")
		if _, ok := tbl.rows[id]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
			return
		}
		*idOf(&v) = id
		tbl.put(id, v)
		c.JSON(http.StatusOK, v)
	})
	r.DELETE(base+"/:id", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !tbl.del(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
}

func (s *Server) listTaps(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.taps.list()
	if id := c.Query("customer_id"); id != "" {
		filtered := rows[:0]
		for _, t := range rows {
			if t.CustomerID == id {
				filtered = append(filtered, t)
			}
		}
		rows = filtered
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) updateTap(c *gin.Context) {
	var v models.TapHistory
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.taps.rows[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}
	v.ID = id
	s.taps.put(id, v)
	c.JSON(http.StatusOK, v)
}

func (s *Server) listDisputes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.disputes.list()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	c.JSON(http.StatusOK, rows)
}

func (s *Server) createDispute(c *gin.Context) {
	var v models.FareDispute
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	v.ID = s.seq
	s.disputes.put(strconv.Itoa(v.ID), v)
	c.JSON(http.StatusOK, v)
}

func (s *Server) updateDispute(c *gin.Context) {
	var v models.FareDispute
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.disputes.rows[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}
	v.ID, _ = strconv.Atoi(id)
	s.disputes.put(id, v)
	c.JSON(http.StatusOK, v)
}

func (s *Server) deleteDispute(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disputes.del(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Command allocation_smoke drives a running registry instance through a
// concurrent enrollment burst and verifies that the course never exceeds its
// capacity. Exit code 1 means the invariant or an HTTP call failed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

type courseRecord struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolledCount"`
}

type allocateResponse struct {
	OK   bool `json:"ok"`
	Info struct {
		Status    string `json:"status"`
		StudentID string `json:"studentId"`
	} `json:"info"`
}

func main() {
	var (
		base        string
		course      string
		capacity    int
		students    int
		concurrency int
		termFee     float64
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api", "API base URL")
	flag.StringVar(&course, "course", fmt.Sprintf("SMOKE%d", time.Now().Unix()%100000), "Course code to create")
	flag.IntVar(&capacity, "capacity", 5, "Course capacity")
	flag.IntVar(&students, "students", 20, "Students to enqueue")
	flag.IntVar(&concurrency, "concurrency", 8, "Concurrent allocate callers")
	flag.Float64Var(&termFee, "term-fee", 1000, "Payment amount that clears each student")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	if err := post(client, base+"/courses", map[string]interface{}{
		"code": course, "title": "Allocation smoke", "capacity": capacity,
	}); err != nil {
		log.Fatalf("create course: %v", err)
	}

	for i := 0; i < students; i++ {
		id := fmt.Sprintf("%s-s%02d", course, i)
		if err := post(client, base+"/students", map[string]interface{}{
			"id": id, "name": "Smoke Student " + id,
		}); err != nil {
			log.Fatalf("add student %s: %v", id, err)
		}
		if err := post(client, base+"/fees/pay", map[string]interface{}{
			"studentId": id, "amount": termFee,
		}); err != nil {
			log.Fatalf("pay fees %s: %v", id, err)
		}
		if err := post(client, base+"/enrollments", map[string]interface{}{
			"courseCode": course, "studentId": id,
		}); err != nil {
			log.Fatalf("submit %s: %v", id, err)
		}
	}

	var (
		mu      sync.Mutex
		granted int
		wg      sync.WaitGroup
	)
	attempts := students * 2
	sem := make(chan struct{}, concurrency)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := allocate(client, base, course)
			if err != nil {
				log.Printf("allocate: %v", err)
				return
			}
			if res.Info.Status == "granted" {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, err := fetchCourse(client, base, course)
	if err != nil {
		log.Fatalf("fetch course: %v", err)
	}

	fmt.Printf("course=%s capacity=%d granted=%d enrolled=%d\n", course, capacity, granted, final.EnrolledCount)
	if final.EnrolledCount > final.Capacity {
		fmt.Println("FAIL: enrolled count exceeds capacity")
		os.Exit(1)
	}
	if granted != final.EnrolledCount {
		fmt.Println("FAIL: granted responses disagree with enrolled count")
		os.Exit(1)
	}
	want := capacity
	if students < capacity {
		want = students
	}
	if final.EnrolledCount != want {
		fmt.Printf("FAIL: expected %d seats filled\n", want)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func post(client *http.Client, url string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return nil
}

func allocate(client *http.Client, base, course string) (allocateResponse, error) {
	raw, err := json.Marshal(map[string]interface{}{"courseCode": course})
	if err != nil {
		return allocateResponse{}, err
	}
	resp, err := client.Post(base+"/enrollments/allocate", "application/json", bytes.NewReader(raw))
	if err != nil {
		return allocateResponse{}, err
	}
	defer resp.Body.Close()
	var out allocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return allocateResponse{}, err
	}
	return out, nil
}

func fetchCourse(client *http.Client, base, course string) (courseRecord, error) {
	resp, err := client.Get(base + "/courses")
	if err != nil {
		return courseRecord{}, err
	}
	defer resp.Body.Close()
	var courses []courseRecord
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		return courseRecord{}, err
	}
	for _, c := range courses {
		if c.Code == course {
			return c, nil
		}
	}
	return courseRecord{}, fmt.Errorf("course %s not listed", course)
}

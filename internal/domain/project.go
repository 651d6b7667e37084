package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client is the customer a Harvest project is billed to.
type Client struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (c Client) Validate() error {
	if c.ID == 0 {
		return errors.New("client: id is required")
	}
	return nil
}

// UnmarshalJSON rejects objects without an id or name.
func (c *Client) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "name"); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	type plain Client
	return json.Unmarshal(data, (*plain)(c))
}

// Project represents a Harvest project. Client is nil when the API omits it
// or returns null, which means no client is assigned.
type Project struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Client *Client `json:"client,omitempty"`
}

func (p Project) Validate() error {
	if p.ID == 0 {
		return errors.New("project: id is required")
	}
	if p.Client != nil {
		return p.Client.Validate()
	}
	return nil
}

func (p *Project) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "name"); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	type plain Project
	return json.Unmarshal(data, (*plain)(p))
}

// Task is a unit of work that can be tracked against a project.
type Task struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (t Task) Validate() error {
	if t.ID == 0 {
		return errors.New("task: id is required")
	}
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "name"); err != nil {
		return fmt.Errorf("task: %w", err)
	}
	type plain Task
	return json.Unmarshal(data, (*plain)(t))
}

// ProjectAssignment links the authenticated user to a project.
type ProjectAssignment struct {
	ID      uint64  `json:"id"`
	Project Project `json:"project"`
}

func (a ProjectAssignment) Validate() error {
	return a.Project.Validate()
}

// TaskAssignment links a task to a project.
type TaskAssignment struct {
	ID      uint64  `json:"id"`
	Project Project `json:"project"`
	Task    Task    `json:"task"`
}

func (a TaskAssignment) Validate() error {
	if err := a.Project.Validate(); err != nil {
		return err
	}
	return a.Task.Validate()
}

func (a *ProjectAssignment) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "project"); err != nil {
		return fmt.Errorf("project assignment: %w", err)
	}
	type plain ProjectAssignment
	return json.Unmarshal(data, (*plain)(a))
}

func (a *TaskAssignment) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "project", "task"); err != nil {
		return fmt.Errorf("task assignment: %w", err)
	}
	type plain TaskAssignment
	return json.Unmarshal(data, (*plain)(a))
}

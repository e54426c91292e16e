package domain

// Task is one execution of a workflow step. Timestamp is epoch milliseconds
// as exported by the workflow engine.
type Task struct {
	ID                  int64  `json:"id" db:"id" ch:"id"`
	WorkflowKey         int64  `json:"workflowKey" db:"workflow_key" ch:"workflow_key"`
	WorkflowInstanceKey int64  `json:"workflowInstanceKey" db:"workflow_instance_key" ch:"workflow_instance_key"`
	Timestamp           int64  `json:"timestamp" db:"timestamp" ch:"timestamp"`
	ElementID           string `json:"elementId" db:"element_id" ch:"element_id"`
	Type                string `json:"type" db:"type" ch:"type"`
	Name                string `json:"name" db:"name" ch:"name"`
	Outcome             string `json:"outcome" db:"outcome" ch:"outcome"`
}

// Variable is a snapshot of one workflow variable. Value may be large.
type Variable struct {
	ID                  int64  `json:"id" db:"id" ch:"id"`
	WorkflowKey         int64  `json:"workflowKey" db:"workflow_key" ch:"workflow_key"`
	WorkflowInstanceKey int64  `json:"workflowInstanceKey" db:"workflow_instance_key" ch:"workflow_instance_key"`
	Timestamp           int64  `json:"timestamp" db:"timestamp" ch:"timestamp"`
	Name                string `json:"name" db:"name" ch:"name"`
	Value               string `json:"value" db:"value" ch:"value"`
}

// BusinessKey maps an external identifier of a given type to a workflow
// instance. The same pair may map to several workflow instances.
type BusinessKey struct {
	ID                  int64  `json:"id" db:"id"`
	BusinessKey         string `json:"businessKey" db:"business_key"`
	BusinessKeyType     string `json:"businessKeyType" db:"business_key_type"`
	WorkflowInstanceKey int64  `json:"workflowInstanceKey" db:"workflow_instance_key"`
	Timestamp           int64  `json:"timestamp" db:"timestamp"`
}

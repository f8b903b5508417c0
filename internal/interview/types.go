package interview

import "go.mongodb.org/mongo-driver/bson/primitive"

// Question is one generated interview question together with the expected
// answer produced at generation time and the candidate's eventual answer.
type Question struct {
	Question       string `bson:"question" json:"question"`
	UserAnswer     string `bson:"userAnswer" json:"userAnswer"`
	ExpectedAnswer string `bson:"expectedAnswer" json:"expectedAnswer"`
}

// Interview is one candidate-role attempt. It is uniquely addressed by the
// owning candidate's email together with ID; Role is informative only.
type Interview struct {
	ID                int        `bson:"id" json:"id"`
	Role              string     `bson:"role" json:"role"`
	ResumeData        []byte     `bson:"resumeData,omitempty" json:"-"`
	IsResumeProcessed bool       `bson:"isResumeProcessed" json:"isResumeProcessed"`
	Questions         []Question `bson:"questions" json:"questions"`
	Feedback          string     `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Rating            *float64   `bson:"rating,omitempty" json:"rating,omitempty"`
}

// Candidate is the stored document: one per email, holding every interview the
// candidate has started.
type Candidate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Interviews []Interview        `bson:"interviews" json:"interviews"`
}

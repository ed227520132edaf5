package lab

import (
	"strings"
)

// TeacherLogInput is a teaching period as entered in the log form.
type TeacherLogInput struct {
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Period        string   `json:"period" validate:"notblank"`
	Class         string   `json:"class" validate:"notblank"`
	LessonContent string   `json:"lessonContent" validate:"notblank"`
	Present       *int     `json:"studentPresent" validate:"omitempty,min=0"`
	EquipmentUsed []string `json:"equipmentUsed"`
	Note          string   `json:"note"`
}

// AddTeacherLog records a taught period at the head of the log.
// The class size is taken from the current roster; attendance defaults to
// the full class.
func (s *LabService) AddTeacherLog(in TeacherLogInput) (*TeacherLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	class := strings.TrimSpace(in.Class)

	total, err := s.CountStudents(class)
	if err != nil {
		return nil, err
	}
	present := total
	if in.Present != nil {
		present = *in.Present
	}

	equipment := in.EquipmentUsed
	if equipment == nil {
		equipment = []string{}
	}

	entry := TeacherLog{
		ID:             s.idgen.New(),
		Date:           in.Date,
		Period:         strings.TrimSpace(in.Period),
		Class:          class,
		StudentPresent: present,
		StudentTotal:   total,
		LessonContent:  in.LessonContent,
		EquipmentUsed:  equipment,
		Note:           in.Note,
		TeacherName:    s.settings.TeacherName,
	}

	logs, err := loadList[TeacherLog](s.store, CollectionTeacherLogs)
	if err != nil {
		return nil, err
	}
	logs = append([]TeacherLog{entry}, logs...)
	if err := saveList(s.store, CollectionTeacherLogs, logs); err != nil {
		return nil, err
	}

	s.logger.Info("teaching period logged", "class", class, "date", in.Date, "period", entry.Period)
	return &entry, nil
}

// ListTeacherLogs returns the teaching log, most recent first.
func (s *LabService) ListTeacherLogs() ([]TeacherLog, error) {
	return loadList[TeacherLog](s.store, CollectionTeacherLogs)
}

package sqlinline

const QListCases = `--sql 3f0d2a61-52c4-4d0c-9a55-0b4f4c1f7e21
select
  id,
  animal_type,
  title,
  description,
  location,
  severity,
  image_url,
  goal,
  raised,
  user_id,
  status,
  created_at
from cases
order by created_at desc, id desc;
`

const QSelectCaseByID = `--sql 8c1e7b3a-0d54-4a8f-b5e2-6a9f3d2c1b07
select
  id,
  animal_type,
  title,
  description,
  location,
  severity,
  image_url,
  goal,
  raised,
  user_id,
  status,
  created_at
from cases
where id = $1::uuid
limit 1;
`

const QInsertCase = `--sql d2b7a4e9-61f3-4c8d-9e0a-5b1c7f3e2a64
insert into cases(
  id,
  animal_type,
  title,
  description,
  location,
  severity,
  image_url,
  goal,
  raised,
  user_id,
  status,
  created_at
) values (
  gen_random_uuid(),
  $1::text,
  $2::text,
  $3::text,
  $4::text,
  $5::text,
  $6::text,
  $7::bigint,
  0,
  $8::uuid,
  'open',
  now()
) returning id, created_at;
`

const QLockCaseForDonation = `--sql 6a4f1c2e-9b7d-4e3a-8f50-c2d1e9b7a3f4
select raised
from cases
where id = $1::uuid
for update;
`

const QIncrementCaseRaised = `--sql b5e8d3c1-2f4a-4b69-a7d0-3e9c1f6b8a25
update cases
set raised = raised + $2::bigint
where id = $1::uuid
returning
  id,
  animal_type,
  title,
  description,
  location,
  severity,
  image_url,
  goal,
  raised,
  user_id,
  status,
  created_at;
`
